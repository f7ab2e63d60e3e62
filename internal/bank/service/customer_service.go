package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/filebank-ledger/internal/data/filestore"
	"github.com/filebank-ledger/internal/domain/customer"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/filebank-ledger/internal/platform/persistence"
	"github.com/google/uuid"
)

// CustomerServiceImpl implements the CustomerService interface
type CustomerServiceImpl struct {
	store  *filestore.Store
	clock  Clock
	logger *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store *filestore.Store, clock Clock, logger *slog.Logger) CustomerService {
	return &CustomerServiceImpl{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, firstName, lastName, email, password string) (customer.Customer, error) {
	logger := applog.FromContext(ctx, s.logger)

	// hashing is slow, keep it out of the lock
	c, err := customer.NewCustomer(firstName, lastName, email, password, s.clock())
	if err != nil {
		logger.Warn("Rejected customer details", "error", err)
		return customer.Customer{}, err
	}

	err = s.store.Exclusive(func() error {
		if _, exists := s.findByEmail(c.Email); exists {
			return customer.ErrDuplicateEmail{Email: c.Email}
		}
		if err := s.store.Customers.Add(c); err != nil {
			return err
		}
		if err := s.store.Commit(s.store.Customers); err != nil {
			_ = s.store.Customers.Delete(c)
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("Failed to create customer", "email", c.Email, "error", err)
		return customer.Customer{}, err
	}

	logger.Info("Customer created", "customer_id", c.ID.String())
	return c, nil
}

func (s *CustomerServiceImpl) Authenticate(ctx context.Context, email, password string) (customer.Customer, error) {
	logger := applog.FromContext(ctx, s.logger)

	var c customer.Customer
	var found bool
	_ = s.store.Exclusive(func() error {
		c, found = s.findByEmail(customer.NormalizeEmail(email))
		return nil
	})

	if !found || !c.CheckPassword(password) {
		logger.Warn("Authentication failed", "email", customer.NormalizeEmail(email))
		return customer.Customer{}, customer.ErrInvalidCredentials
	}

	logger.Info("Customer authenticated", "customer_id", c.ID.String())
	return c, nil
}

func (s *CustomerServiceImpl) GetCustomerByID(ctx context.Context, customerID uuid.UUID) (customer.Customer, error) {
	var c customer.Customer
	err := s.store.Exclusive(func() error {
		var ok bool
		if c, ok = s.store.Customers.Get(customerID.String()); !ok {
			return customer.ErrCustomerNotFound{CustomerID: customerID}
		}
		return nil
	})
	return c, err
}

func (s *CustomerServiceImpl) GetCustomerByEmail(ctx context.Context, email string) (customer.Customer, error) {
	email = customer.NormalizeEmail(email)

	var c customer.Customer
	err := s.store.Exclusive(func() error {
		var ok bool
		if c, ok = s.findByEmail(email); !ok {
			return customer.ErrCustomerNotFound{Email: email}
		}
		return nil
	})
	return c, err
}

func (s *CustomerServiceImpl) UpdateCustomerDetails(ctx context.Context, customerID uuid.UUID, firstName, lastName, email string) (customer.Customer, error) {
	logger := applog.FromContext(ctx, s.logger).With("customer_id", customerID.String())

	var updated customer.Customer
	err := s.store.Exclusive(func() error {
		current, ok := s.store.Customers.Get(customerID.String())
		if !ok {
			return customer.ErrCustomerNotFound{CustomerID: customerID}
		}

		var err error
		if updated, err = current.WithDetails(firstName, lastName, email, s.clock()); err != nil {
			return err
		}

		if other, exists := s.findByEmail(updated.Email); exists && other.ID != customerID {
			return customer.ErrDuplicateEmail{Email: updated.Email}
		}

		if err := s.store.Customers.Update(updated); err != nil {
			return err
		}
		if err := s.store.Commit(s.store.Customers); err != nil {
			_ = s.store.Customers.Update(current)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, persistence.ErrStorageWriteFailed{}) {
			logger.Error("Failed to persist customer details", "error", err)
		} else {
			logger.Warn("Rejected customer details update", "error", err)
		}
		return customer.Customer{}, err
	}

	logger.Info("Customer details updated")
	return updated, nil
}

// findByEmail expects a normalized email and the store lock to be held
func (s *CustomerServiceImpl) findByEmail(email string) (customer.Customer, bool) {
	return s.store.Customers.FindOne(func(c customer.Customer) bool {
		return c.Email == email
	})
}
