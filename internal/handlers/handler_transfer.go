package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
	"github.com/SscSPs/simple_bank_app/internal/dto"
	"github.com/SscSPs/simple_bank_app/internal/middleware"
	"github.com/SscSPs/simple_bank_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// transferHandler handles HTTP requests that move money.
type transferHandler struct {
	transferService portssvc.TransferSvc
}

// RegisterTransferRoutes registers the transfer endpoint. A nil limiter disables rate limiting.
func RegisterTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvc, transferLimiter *limiter.Limiter) {
	h := &transferHandler{transferService: transferService}

	handlersChain := []gin.HandlerFunc{}
	if transferLimiter != nil {
		handlersChain = append(handlersChain, middleware.RateLimit(transferLimiter))
	}
	handlersChain = append(handlersChain, h.createTransfer)

	rg.POST("/transfers", handlersChain...)
}

// createTransfer godoc
// @Summary Send money
// @Description Moves funds from the logged-in account to the account matching an account number or phone number
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Recipient, amount and optional note"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or self transfer"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Recipient not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 503 {object} dto.ErrorResponse "Storage unavailable"
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sourceAccountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		logger.Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Please login to continue."})
		return
	}

	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "Invalid request format."})
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), domain.TransferRequest{
		SourceAccountID: sourceAccountID,
		DestinationKey:  req.ToAccountOrPhone,
		RawAmount:       req.Amount,
		Note:            req.Note,
	})
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}

	message := fmt.Sprintf("%s sent to %s (%s).",
		utils.FormatRupees(result.Amount), result.DestinationName, result.DestinationAccountNumber)
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result, message))
}
