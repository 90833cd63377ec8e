package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

// approvalHandler handles HTTP requests for the approval workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(approvalService portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{
		approvalService: approvalService,
	}
}

func registerApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	docs := rg.Group("/documents/:documentID")
	{
		docs.GET("/approvers", h.listApprovers)
		docs.POST("/approve-requests", h.createApproveRequest)
		docs.POST("/approve", h.approve)
	}
}

// listApprovers godoc
// @Summary List eligible approvers for a document
// @Description Lists active users attached to the document's location whose per-type limit covers the total
// @Tags approvals
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {array} dto.ApproverResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{documentID}/approvers [get]
func (h *approvalHandler) listApprovers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	approvers, err := h.approvalService.GetApproversList(c.Request.Context(), documentID, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to list approvers")
		return
	}
	c.JSON(http.StatusOK, approvers)
}

// createApproveRequest godoc
// @Summary Submit a document for approval
// @Description Records one pending request per approver and moves the document to PENDING_APPROVAL
// @Tags approvals
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param request body dto.CreateApproveRequestRequest true "Approvers to request"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /documents/{documentID}/approve-requests [post]
func (h *approvalHandler) createApproveRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.CreateApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createApproveRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requesterID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.approvalService.CreateApproveRequest(c.Request.Context(), documentID, requesterID, req.ApproverIDs); err != nil {
		respondDocumentError(c, logger, err, "Failed to create approve requests")
		return
	}

	logger.Info("Approve requests created", slog.String("document_id", documentID))
	c.Status(http.StatusNoContent)
}

// approve godoc
// @Summary Approve a document
// @Description Satisfies the caller's outstanding approve request, locks the document and posts the ledger entries
// @Tags approvals
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /documents/{documentID}/approve [post]
func (h *approvalHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.approvalService.Approve(c.Request.Context(), documentID, actorID); err != nil {
		respondDocumentError(c, logger, err, "Failed to approve document")
		return
	}

	logger.Info("Document approved", slog.String("document_id", documentID))
	c.Status(http.StatusNoContent)
}
