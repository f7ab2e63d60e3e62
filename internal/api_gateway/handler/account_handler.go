package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/filebank-ledger/internal/bank/service"
	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/ledger"
	"github.com/filebank-ledger/internal/domain/shared"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create opens an account for the customer in the path
func (h *AccountHandler) Create(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	idParam := c.Param("id")
	customerID, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("Invalid customer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid customer ID")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var currency shared.Currency
	if req.Currency != "" {
		if currency, err = shared.ParseCurrency(req.Currency); err != nil {
			respondServiceError(c, logger, err)
			return
		}
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), customerID, account.Kind(req.Kind), currency)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// ListByCustomer lists the accounts held by the customer in the path
func (h *AccountHandler) ListByCustomer(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	idParam := c.Param("id")
	customerID, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("Invalid customer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid customer ID")
		return
	}

	accounts, err := h.accountService.GetAccountsByCustomerID(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapAccountsToResponse(accounts))
}

// ListByEmail lists the accounts held by the customer owning the email query parameter
func (h *AccountHandler) ListByEmail(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	email := c.Query("email")
	if strings.TrimSpace(email) == "" {
		RespondBadRequest(c, "Query parameter email is required")
		return
	}

	accounts, err := h.accountService.GetAccountsByCustomerEmail(c.Request.Context(), email)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapAccountsToResponse(accounts))
}

// GetByNumber retrieves an account by its number
func (h *AccountHandler) GetByNumber(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	acc, err := h.accountService.GetAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// GetTransactions lists the transactions of an account in recording order
func (h *AccountHandler) GetTransactions(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	txs, err := h.accountService.GetTransactions(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapTransactionsToResponse(txs))
}

// Deposit adds cash to an account
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.cashMovement(c, h.accountService.Deposit)
}

// Withdraw takes cash from an account
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.cashMovement(c, h.accountService.Withdraw)
}

func (h *AccountHandler) cashMovement(c *gin.Context, move func(context.Context, string, decimal.Decimal) ([]ledger.Transaction, error)) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txs, err := move(c.Request.Context(), c.Param("number"), req.Amount)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondCreated(c, mapTransactionsToResponse(txs))
}
