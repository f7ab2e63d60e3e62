package handler

import (
	"log/slog"

	"github.com/filebank-ledger/internal/bank/service"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles HTTP requests for transfers
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// Create moves funds between two accounts and returns every recorded
// transaction, interest settlements included
func (h *TransferHandler) Create(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txs, err := h.transferService.Transfer(c.Request.Context(), req.FromAccountNumber, req.ToAccountNumber, req.Amount)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Transfer completed",
		"from_account", req.FromAccountNumber,
		"to_account", req.ToAccountNumber,
		"amount", req.Amount.String(),
	)
	RespondCreated(c, mapTransactionsToResponse(txs))
}
