package handler

import (
	"time"

	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to register a customer
type CreateCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// UpdateCustomerRequest represents a request to change customer details
type UpdateCustomerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

// AuthenticateRequest represents a login attempt
type AuthenticateRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CustomerResponse represents a customer in API responses. The password hash
// never leaves the service.
type CustomerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateAccountRequest represents a request to open an account. An empty
// currency selects the configured default.
type CreateAccountRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=current savings"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	AccountNumber         string `json:"account_number"`
	CustomerID            string `json:"customer_id"`
	Kind                  string `json:"kind"`
	Currency              string `json:"currency"`
	Balance               string `json:"balance"`
	InterestRate          string `json:"interest_rate,omitempty"`
	LastInterestAppliedAt string `json:"last_interest_applied_at,omitempty"`
	CreatedAt             string `json:"created_at"`
	UpdatedAt             string `json:"updated_at"`
}

// AmountRequest carries the amount of a deposit or withdrawal. Amounts may be
// sent as JSON numbers or strings.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest represents a transfer between two accounts
type TransferRequest struct {
	FromAccountNumber string          `json:"from_account_number" binding:"required"`
	ToAccountNumber   string          `json:"to_account_number" binding:"required"`
	Amount            decimal.Decimal `json:"amount"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	TransactionID             string `json:"transaction_id"`
	AccountNumber             string `json:"account_number"`
	Kind                      string `json:"kind"`
	Amount                    string `json:"amount"`
	CounterpartyAccountNumber string `json:"counterparty_account_number,omitempty"`
	InterestRate              string `json:"interest_rate,omitempty"`
	Timestamp                 string `json:"timestamp"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// AccountListResponse represents a list of accounts in API responses
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

func mapCustomerToResponse(c customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func mapAccountToResponse(acc account.Account) AccountResponse {
	resp := AccountResponse{
		AccountNumber: acc.AccountNumber,
		CustomerID:    acc.CustomerID.String(),
		Kind:          string(acc.Kind),
		Currency:      acc.Currency.String(),
		Balance:       acc.Balance.StringFixed(2),
		CreatedAt:     acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     acc.UpdatedAt.Format(time.RFC3339),
	}
	if acc.Savings != nil {
		resp.InterestRate = acc.Savings.AnnualRate.String()
		resp.LastInterestAppliedAt = acc.Savings.LastInterestAppliedAt.Format(time.RFC3339)
	}
	return resp
}

func mapAccountsToResponse(accounts []account.Account) AccountListResponse {
	resp := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acc := range accounts {
		resp.Accounts = append(resp.Accounts, mapAccountToResponse(acc))
	}
	return resp
}

func mapTransactionToResponse(tx ledger.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:             tx.ID.String(),
		AccountNumber:             tx.AccountNumber,
		Kind:                      string(tx.Kind),
		Amount:                    tx.Amount.StringFixed(2),
		CounterpartyAccountNumber: tx.Details.CounterpartyAccountNumber,
		Timestamp:                 tx.Timestamp.Format(time.RFC3339Nano),
	}
	if tx.Details.InterestRate != nil {
		resp.InterestRate = tx.Details.InterestRate.String()
	}
	return resp
}

func mapTransactionsToResponse(txs []ledger.Transaction) TransactionListResponse {
	resp := TransactionListResponse{Transactions: make([]TransactionResponse, 0, len(txs))}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, mapTransactionToResponse(tx))
	}
	return resp
}
