package handler

import (
	"context"
	"log/slog"
	"os"

	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, firstName, lastName, email, password string) (customer.Customer, error) {
	args := m.Called(ctx, firstName, lastName, email, password)
	c, _ := args.Get(0).(customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerService) Authenticate(ctx context.Context, email, password string) (customer.Customer, error) {
	args := m.Called(ctx, email, password)
	c, _ := args.Get(0).(customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerService) GetCustomerByID(ctx context.Context, customerID uuid.UUID) (customer.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerService) GetCustomerByEmail(ctx context.Context, email string) (customer.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(customer.Customer)
	return c, args.Error(1)
}

func (m *MockCustomerService) UpdateCustomerDetails(ctx context.Context, customerID uuid.UUID, firstName, lastName, email string) (customer.Customer, error) {
	args := m.Called(ctx, customerID, firstName, lastName, email)
	c, _ := args.Get(0).(customer.Customer)
	return c, args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, customerID uuid.UUID, kind account.Kind, currency shared.Currency) (account.Account, error) {
	args := m.Called(ctx, customerID, kind, currency)
	a, _ := args.Get(0).(account.Account)
	return a, args.Error(1)
}

func (m *MockAccountService) CreateAccountByEmail(ctx context.Context, email string, kind account.Kind, currency shared.Currency) (account.Account, error) {
	args := m.Called(ctx, email, kind, currency)
	a, _ := args.Get(0).(account.Account)
	return a, args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountNumber string) (account.Account, error) {
	args := m.Called(ctx, accountNumber)
	a, _ := args.Get(0).(account.Account)
	return a, args.Error(1)
}

func (m *MockAccountService) GetAccountsByCustomerID(ctx context.Context, customerID uuid.UUID) ([]account.Account, error) {
	args := m.Called(ctx, customerID)
	a, _ := args.Get(0).([]account.Account)
	return a, args.Error(1)
}

func (m *MockAccountService) GetAccountsByCustomerEmail(ctx context.Context, email string) ([]account.Account, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).([]account.Account)
	return a, args.Error(1)
}

func (m *MockAccountService) GetTransactions(ctx context.Context, accountNumber string) ([]ledger.Transaction, error) {
	args := m.Called(ctx, accountNumber)
	t, _ := args.Get(0).([]ledger.Transaction)
	return t, args.Error(1)
}

func (m *MockAccountService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount.String())
	t, _ := args.Get(0).([]ledger.Transaction)
	return t, args.Error(1)
}

func (m *MockAccountService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount.String())
	t, _ := args.Get(0).([]ledger.Transaction)
	return t, args.Error(1)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Transfer(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) ([]ledger.Transaction, error) {
	args := m.Called(ctx, fromAccountNumber, toAccountNumber, amount.String())
	t, _ := args.Get(0).([]ledger.Transaction)
	return t, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
