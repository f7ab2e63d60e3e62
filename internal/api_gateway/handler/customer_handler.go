package handler

import (
	"log/slog"

	"github.com/filebank-ledger/internal/bank/service"
	applog "github.com/filebank-ledger/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles HTTP requests for customer operations
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(logger *slog.Logger, customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// Create registers a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.customerService.CreateCustomer(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondCreated(c, mapCustomerToResponse(cust))
}

// Authenticate checks an email and password pair
func (h *CustomerHandler) Authenticate(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.customerService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapCustomerToResponse(cust))
}

// GetByID retrieves a customer by id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	id, ok := h.customerID(c, logger)
	if !ok {
		return
	}

	cust, err := h.customerService.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapCustomerToResponse(cust))
}

// Update rewrites the name and email of a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	logger := applog.FromContext(c.Request.Context(), h.logger)

	id, ok := h.customerID(c, logger)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cust, err := h.customerService.UpdateCustomerDetails(c.Request.Context(), id, req.FirstName, req.LastName, req.Email)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	RespondOK(c, mapCustomerToResponse(cust))
}

func (h *CustomerHandler) customerID(c *gin.Context, logger *slog.Logger) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("Invalid customer ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid customer ID")
		return uuid.Nil, false
	}
	return id, true
}
