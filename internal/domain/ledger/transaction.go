package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tags what a transaction did to the balance of its account
type Kind string

const (
	KindDeposit                       Kind = "deposit"
	KindWithdraw                      Kind = "withdraw"
	KindInterestAppliedBeforeWithdraw Kind = "interest_applied_before_withdraw"
	KindInterestAppliedBeforeDeposit  Kind = "interest_applied_before_deposit"
)

// Credit reports whether the kind adds to the balance
func (k Kind) Credit() bool {
	return k != KindWithdraw
}

// IsInterest reports whether the kind records an interest settlement
func (k Kind) IsInterest() bool {
	return k == KindInterestAppliedBeforeWithdraw || k == KindInterestAppliedBeforeDeposit
}

// Details is the kind-specific payload. Deposits name the source account and
// withdrawals the destination; both are empty for cash movements. Interest
// records carry the rate used.
type Details struct {
	CounterpartyAccountNumber string           `json:"CounterpartyAccountNumber,omitempty"`
	CounterpartyCustomerID    uuid.UUID        `json:"CounterpartyCustomerId"`
	InterestRate              *decimal.Decimal `json:"InterestRate,omitempty"`
}

// Counterparty identifies the other side of a transfer
type Counterparty struct {
	AccountNumber string
	CustomerID    uuid.UUID
}

// Transaction is an immutable record of one balance change. Amount is never
// negative; direction follows from Kind.
type Transaction struct {
	ID            uuid.UUID       `json:"Id"`
	AccountNumber string          `json:"AccountNumber"`
	Amount        decimal.Decimal `json:"Amount"`
	Kind          Kind            `json:"Kind"`
	Details       Details         `json:"Details"`
	Timestamp     time.Time       `json:"Timestamp"`
}

// NewDeposit records money entering accountNumber. A nil source means cash.
func NewDeposit(accountNumber string, amount decimal.Decimal, source *Counterparty, now time.Time) Transaction {
	return newTransaction(accountNumber, amount, KindDeposit, counterpartyDetails(source), now)
}

// NewWithdrawal records money leaving accountNumber. A nil destination means cash.
func NewWithdrawal(accountNumber string, amount decimal.Decimal, destination *Counterparty, now time.Time) Transaction {
	return newTransaction(accountNumber, amount, KindWithdraw, counterpartyDetails(destination), now)
}

// NewInterest records interest settled into accountNumber at rate. kind must
// be one of the interest kinds.
func NewInterest(kind Kind, accountNumber string, amount, rate decimal.Decimal, now time.Time) Transaction {
	return newTransaction(accountNumber, amount, kind, Details{InterestRate: &rate}, now)
}

func newTransaction(accountNumber string, amount decimal.Decimal, kind Kind, details Details, now time.Time) Transaction {
	return Transaction{
		ID:            uuid.New(),
		AccountNumber: accountNumber,
		Amount:        amount,
		Kind:          kind,
		Details:       details,
		Timestamp:     now,
	}
}

func counterpartyDetails(c *Counterparty) Details {
	if c == nil {
		return Details{}
	}
	return Details{CounterpartyAccountNumber: c.AccountNumber, CounterpartyCustomerID: c.CustomerID}
}

// Clone returns a copy that shares no memory with t
func (t Transaction) Clone() Transaction {
	if t.Details.InterestRate != nil {
		rate := *t.Details.InterestRate
		t.Details.InterestRate = &rate
	}
	return t
}

// SignedAmount is the effect of the transaction on its account balance
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind.Credit() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Replay rebuilds a balance from zero by applying txs in order
func Replay(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		balance = balance.Add(tx.SignedAmount())
	}
	return balance
}
