package handler

import (
	"errors"
	"log/slog"

	"github.com/filebank-ledger/internal/domain/account"
	"github.com/filebank-ledger/internal/domain/customer"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto the HTTP status that describes it
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidKind),
		errors.Is(err, account.ErrInvalidCurrency),
		errors.Is(err, account.ErrInvalidRate),
		errors.Is(err, customer.ErrEmptyName),
		errors.Is(err, customer.ErrInvalidEmail),
		errors.Is(err, customer.ErrPasswordTooWeak):
		RespondBadRequest(c, err.Error())

	case errors.Is(err, customer.ErrInvalidCredentials):
		RespondUnauthorized(c, err.Error())

	case errors.Is(err, account.ErrAccountNotFound{}),
		errors.Is(err, customer.ErrCustomerNotFound{}):
		RespondNotFound(c, err.Error())

	case errors.Is(err, customer.ErrDuplicateEmail{}),
		errors.Is(err, account.ErrDuplicateAccountKind{}):
		RespondConflict(c, err.Error())

	case errors.Is(err, account.ErrInsufficientFunds):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", err.Error())
	case errors.Is(err, account.ErrSameAccount):
		RespondUnprocessable(c, "SAME_ACCOUNT", err.Error())
	case errors.Is(err, account.ErrCurrencyMismatch):
		RespondUnprocessable(c, "CURRENCY_MISMATCH", err.Error())

	default:
		logger.Error("Request failed", "error", err)
		RespondInternalError(c)
	}
}
