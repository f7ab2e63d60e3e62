package service

import (
	"context"
	"errors"
	"testing"

	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransferService_Transfer_CurrentToCurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	settler := &MockInterestSettler{}
	recorder := &MockEntryRecorder{}
	svc := NewTransferService(store, settler, recorder, fixedClock(testNow), testLogger())

	ada := seedCustomer(t, store, "ada@example.com")
	bob := seedCustomer(t, store, "bob@example.com")
	from := seedAccount(t, store, ada, account.KindCurrent, "1000")
	to := seedAccount(t, store, bob, account.KindCurrent, "50")

	settler.On("Settle", ctx, byAccountNumber(from.AccountNumber), ledger.KindInterestAppliedBeforeWithdraw, testNow).Return(from, nil).Once()
	settler.On("Settle", ctx, byAccountNumber(to.AccountNumber), ledger.KindInterestAppliedBeforeDeposit, testNow).Return(to, nil).Once()

	var recorded Posting
	recorder.On("Record", ctx, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(Posting) }).
		Return(nil).Once()

	txs, err := svc.Transfer(ctx, from.AccountNumber, to.AccountNumber, dec("300"))
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, ledger.KindWithdraw, txs[0].Kind)
	assert.Equal(t, from.AccountNumber, txs[0].AccountNumber)
	assert.Equal(t, to.AccountNumber, txs[0].Details.CounterpartyAccountNumber)
	assert.Equal(t, bob.ID, txs[0].Details.CounterpartyCustomerID)

	assert.Equal(t, ledger.KindDeposit, txs[1].Kind)
	assert.Equal(t, to.AccountNumber, txs[1].AccountNumber)
	assert.Equal(t, from.AccountNumber, txs[1].Details.CounterpartyAccountNumber)
	assert.Equal(t, ada.ID, txs[1].Details.CounterpartyCustomerID)

	require.Len(t, recorded.Accounts, 2)
	assert.True(t, recorded.Accounts[0].Balance.Equal(dec("700")))
	assert.True(t, recorded.Accounts[1].Balance.Equal(dec("350")))
	assert.Equal(t, txs, recorded.Transactions)

	settler.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestTransferService_Transfer_SavingsSourceSettlesInterestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	settler := &MockInterestSettler{}
	recorder := &MockEntryRecorder{}
	svc := NewTransferService(store, settler, recorder, fixedClock(testNow), testLogger())

	from := seedAccount(t, store, seedCustomer(t, store, "ada@example.com"), account.KindSavings, "500")
	to := seedAccount(t, store, seedCustomer(t, store, "bob@example.com"), account.KindCurrent, "0")

	settled := from
	settled.Balance = dec("502.05")
	interest := ledger.NewInterest(ledger.KindInterestAppliedBeforeWithdraw, from.AccountNumber, dec("2.05"), dec("0.05"), testNow)
	settler.On("Settle", ctx, byAccountNumber(from.AccountNumber), ledger.KindInterestAppliedBeforeWithdraw, testNow).Return(settled, &interest)
	settler.On("Settle", ctx, byAccountNumber(to.AccountNumber), ledger.KindInterestAppliedBeforeDeposit, testNow).Return(to, nil)
	recorder.On("Record", ctx, mock.Anything).Return(nil)

	txs, err := svc.Transfer(ctx, from.AccountNumber, to.AccountNumber, dec("500"))
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, []ledger.Kind{
		ledger.KindInterestAppliedBeforeWithdraw,
		ledger.KindWithdraw,
		ledger.KindDeposit,
	}, []ledger.Kind{txs[0].Kind, txs[1].Kind, txs[2].Kind})
}

func TestTransferService_Transfer_Rejections(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	settler := &MockInterestSettler{}
	recorder := &MockEntryRecorder{}
	svc := NewTransferService(store, settler, recorder, fixedClock(testNow), testLogger())

	ada := seedCustomer(t, store, "ada@example.com")
	bob := seedCustomer(t, store, "bob@example.com")
	from := seedAccount(t, store, ada, account.KindCurrent, "100")
	to := seedAccount(t, store, bob, account.KindSavings, "100")
	usd := seedAccount(t, store, bob, account.KindCurrent, "100")
	usd.Currency = shared.CurrencyUSD
	require.NoError(t, store.Accounts.Update(usd))

	testCases := []struct {
		name        string
		from, to    string
		amount      string
		expectedErr error
	}{
		{"UnknownSource", "0000000000", to.AccountNumber, "10", account.ErrAccountNotFound{AccountNumber: "0000000000"}},
		{"UnknownDestination", from.AccountNumber, "0000000000", "10", account.ErrAccountNotFound{AccountNumber: "0000000000"}},
		{"SameAccount", from.AccountNumber, from.AccountNumber, "10", account.ErrSameAccount},
		{"ZeroAmount", from.AccountNumber, to.AccountNumber, "0", account.ErrInvalidAmount},
		{"NegativeAmount", from.AccountNumber, to.AccountNumber, "-10", account.ErrInvalidAmount},
		{"InsufficientFunds", from.AccountNumber, to.AccountNumber, "100.01", account.ErrInsufficientFunds},
		{"CurrencyMismatch", from.AccountNumber, usd.AccountNumber, "10", account.ErrCurrencyMismatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			txs, err := svc.Transfer(ctx, tc.from, tc.to, dec(tc.amount))
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, txs)
		})
	}

	settler.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)

	stored, _ := store.Accounts.Get(from.AccountNumber)
	assert.True(t, stored.Balance.Equal(dec("100")))
}

func TestTransferService_Transfer_RecorderFailure(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	settler := &MockInterestSettler{}
	recorder := &MockEntryRecorder{}
	svc := NewTransferService(store, settler, recorder, fixedClock(testNow), testLogger())

	from := seedAccount(t, store, seedCustomer(t, store, "ada@example.com"), account.KindCurrent, "100")
	to := seedAccount(t, store, seedCustomer(t, store, "bob@example.com"), account.KindCurrent, "0")

	settler.On("Settle", ctx, byAccountNumber(from.AccountNumber), mock.Anything, mock.Anything).Return(from, nil)
	settler.On("Settle", ctx, byAccountNumber(to.AccountNumber), mock.Anything, mock.Anything).Return(to, nil)
	commitErr := errors.New("commit failed")
	recorder.On("Record", ctx, mock.Anything).Return(commitErr)

	txs, err := svc.Transfer(ctx, from.AccountNumber, to.AccountNumber, dec("10"))
	assert.ErrorIs(t, err, commitErr)
	assert.Nil(t, txs)
}
