package components

import (
	"log/slog"

	"github.com/filebank-ledger/internal/bank/service"
	"github.com/filebank-ledger/internal/config"
	"github.com/filebank-ledger/internal/data/filestore"
)

// Services groups the ledger operations exposed to callers
type Services struct {
	Customers service.CustomerService
	Accounts  service.AccountService
	Transfers service.TransferService
}

// CreateServices wires the ledger services with all their dependencies
func CreateServices(store *filestore.Store, cfg *config.Config, clock service.Clock, logger *slog.Logger) Services {
	settler := NewInterestSettler(logger.With("component", "interest_settler"))
	recorder := NewEntryRecorder(store, cfg.Outbox.Enabled, logger.With("component", "entry_recorder"))

	services := Services{
		Customers: service.NewCustomerService(store, clock, logger.With("component", "customer_service")),
		Accounts:  service.NewAccountService(store, settler, recorder, &cfg.Ledger, clock, logger.With("component", "account_service")),
		Transfers: service.NewTransferService(store, settler, recorder, clock, logger.With("component", "transfer_service")),
	}

	logger.Info("Created ledger services",
		"default_currency", cfg.Ledger.DefaultCurrency,
		"savings_rate", cfg.Ledger.SavingsInterestRate,
		"outbox_enabled", cfg.Outbox.Enabled,
	)
	return services
}
