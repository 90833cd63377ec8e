package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

// ledgerHandler handles HTTP requests for ledger postings and balances.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService: ledgerService,
	}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.GET("/accounts/:glAccountID/balance", h.getBalance)
	rg.POST("/transactions", h.postTransaction)
}

// getBalance godoc
// @Summary Get a GL account balance
// @Description Derives the balance from the account's posted transaction records
// @Tags ledger
// @Produce json
// @Param glAccountID path string true "GL Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} ErrorResponse
// @Router /accounts/{glAccountID}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	glAccountID := c.Param("glAccountID")

	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), glAccountID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to derive account balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{GLAccountID: glAccountID, Balance: balance})
}

// postTransaction godoc
// @Summary Post a balanced transaction
// @Description Validates the double-entry invariant and persists the transaction with its records
// @Tags ledger
// @Accept json
// @Produce json
// @Param transaction body dto.PostTransactionRequest true "Transaction to post"
// @Success 201 {object} map[string]string "Returns the ID of the posted transaction"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions [post]
func (h *ledgerHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	records := make([]domain.TransactionRecord, len(req.Records))
	for i, rec := range req.Records {
		records[i] = domain.TransactionRecord{
			GLAccountID: rec.GLAccountID,
			Amount:      rec.Amount,
			IsDebit:     rec.IsDebit,
		}
	}

	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), req.OrganizationID, records, req.Notes, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, gin.H{"transactionID": txn.TransactionID})
}
