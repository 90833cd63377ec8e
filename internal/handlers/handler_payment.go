package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

// paymentHandler handles HTTP requests for payments and fund transfers.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
	}
}

func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.receivePayment)
		payments.POST("/card", h.receiveCardPayment)
		payments.POST("/forward", h.forwardPayment)
	}
}

// receivePayment godoc
// @Summary Record a direct-deposit payment
// @Description Records a payment allocated across invoices and posts the balanced ledger transaction
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.ReceivePaymentRequest true "Payment to record"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments [post]
func (h *paymentHandler) receivePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReceivePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for receivePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.ReceivePayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// receiveCardPayment godoc
// @Summary Record a credit card payment
// @Description Charges the card via the external gateway and posts the payment through the clearing account
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CardPaymentRequest true "Card payment to process"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments/card [post]
func (h *paymentHandler) receiveCardPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for receiveCardPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payment, err := h.paymentService.ReceiveCreditCardPayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to process card payment")
		return
	}

	logger.Info("Card payment recorded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// forwardPayment godoc
// @Summary Forward funds between GL accounts
// @Description Transfers funds after an in-transaction sufficient-funds check on the source account
// @Tags payments
// @Accept json
// @Produce json
// @Param transfer body dto.ForwardPaymentRequest true "Transfer to record"
// @Success 201 {object} dto.ForwardedPaymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /payments/forward [post]
func (h *paymentHandler) forwardPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ForwardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for forwardPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fp, err := h.paymentService.ForwardPayment(c.Request.Context(), req, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to forward payment")
		return
	}

	logger.Info("Payment forwarded", slog.String("forwarded_payment_id", fp.ForwardedPaymentID))
	c.JSON(http.StatusCreated, dto.ToForwardedPaymentResponse(fp))
}
