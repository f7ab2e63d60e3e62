package outbox_poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/outbox"
	"github.com/filebank-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMessage(t *testing.T, accountNumber string) outbox.Message {
	t.Helper()
	tx := ledger.NewWithdrawal(accountNumber, decimal.RequireFromString("5.00"), nil, time.Now().UTC())
	msg, err := outbox.NewMessage(outbox.LedgerEvent{Transaction: tx, CustomerID: uuid.New(), Currency: shared.CurrencyUSD}, time.Now().UTC())
	require.NoError(t, err)
	return msg
}

func TestDispatcher_Dispatch(t *testing.T) {
	ok := newMessage(t, "2000000001")
	partial := newMessage(t, "2000000002")

	first := &MockSink{}
	first.On("Deliver", mock.Anything, mock.Anything).Return(nil)
	second := &MockSink{}
	second.On("Deliver", mock.Anything, "2000000001").Return(nil)
	second.On("Deliver", mock.Anything, "2000000002").Return(errors.New("archive offline"))

	d := newDispatcher(t, first, second)
	results := d.Dispatch(context.Background(), []outbox.Message{ok, partial})

	require.Len(t, results, 2)
	assert.NoError(t, results[ok.ID])
	require.Error(t, results[partial.ID])
	assert.Contains(t, results[partial.ID].Error(), "archive offline")
	first.AssertNumberOfCalls(t, "Deliver", 2)
}

func TestDispatcher_NoSinks(t *testing.T) {
	msg := newMessage(t, "2000000003")
	d := newDispatcher(t)

	results := d.Dispatch(context.Background(), []outbox.Message{msg})
	assert.NoError(t, results[msg.ID])
}

func TestDispatcher_UnboundedPool(t *testing.T) {
	// ants treats a non-positive size as unbounded
	d, err := NewDispatcher(&config.WorkerPoolConfig{Size: 0}, nil, testLogger())
	require.NoError(t, err)
	defer d.Shutdown()
	assert.Equal(t, 0, d.Running())
}
