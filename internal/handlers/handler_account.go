package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/simple_bank_app/internal/core/domain"
	portssvc "github.com/SscSPs/simple_bank_app/internal/core/ports/services"
	"github.com/SscSPs/simple_bank_app/internal/dto"
	"github.com/SscSPs/simple_bank_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the logged-in account and its history.
type accountHandler struct {
	accountService portssvc.AccountDirectorySvc
	ledgerService  portssvc.LedgerReaderSvc
}

// RegisterAccountRoutes registers read-only routes for the authenticated account.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountDirectorySvc, ledgerService portssvc.LedgerReaderSvc) {
	h := &accountHandler{accountService: accountService, ledgerService: ledgerService}

	me := rg.Group("/accounts/me")
	{
		me.GET("", h.getMyAccount)
		me.GET("/balance", h.getMyBalance)
		me.GET("/transactions", h.listMyTransactions)
		me.GET("/transactions/recent", h.listMyRecentTransactions)
	}
}

// accountIDOrAbort returns the authenticated account id, writing a 401 when it is missing.
func accountIDOrAbort(c *gin.Context) (string, bool) {
	accountID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Account ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Please login to continue."})
	}
	return accountID, ok
}

// getMyAccount godoc
// @Summary Get my account
// @Description Returns the profile and current balance of the logged-in account
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/me [get]
func (h *accountHandler) getMyAccount(c *gin.Context) {
	accountID, ok := accountIDOrAbort(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getMyBalance godoc
// @Summary Get my balance
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/me/balance [get]
func (h *accountHandler) getMyBalance(c *gin.Context) {
	accountID, ok := accountIDOrAbort(c)
	if !ok {
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: domain.FormatAmount(balance)})
}

// listMyTransactions godoc
// @Summary List my transactions
// @Description Returns the full ledger history of the logged-in account, newest first
// @Tags ledger
// @Produce  json
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /accounts/me/transactions [get]
func (h *accountHandler) listMyTransactions(c *gin.Context) {
	accountID, ok := accountIDOrAbort(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), accountID)
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerEntriesResponse(entries))
}

// listMyRecentTransactions godoc
// @Summary List my recent transactions
// @Description Returns the newest ledger entries of the logged-in account
// @Tags ledger
// @Produce  json
// @Param   limit query int false "Number of entries (1-100)" default(5)
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /accounts/me/transactions/recent [get]
func (h *accountHandler) listMyRecentTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := accountIDOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListRecentEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid query for recent transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "limit must be between 1 and 100."})
		return
	}

	entries, err := h.ledgerService.ListRecentEntries(c.Request.Context(), accountID, params.Limit)
	if err != nil {
		status, body := errorResponseFor(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerEntriesResponse(entries))
}
