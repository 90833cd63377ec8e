package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jobfin/finance_approval_app/internal/apperrors"
	"github.com/jobfin/finance_approval_app/internal/core/domain"
	portssvc "github.com/jobfin/finance_approval_app/internal/core/ports/services"
	"github.com/jobfin/finance_approval_app/internal/dto"
	"github.com/jobfin/finance_approval_app/internal/middleware"
)

// documentHandler handles HTTP requests for financial documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(documentService portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: documentService,
	}
}

func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	docs := rg.Group("/documents")
	{
		docs.POST("", h.createDocument)
		docs.GET("/:documentID", h.getDocument)
		docs.PUT("/:documentID", h.updateDocument)
		docs.DELETE("/:documentID", h.deleteDocument)
	}
	rg.GET("/organizations/:organizationID/documents", h.listDocuments)
}

// createDocument godoc
// @Summary Create a financial document
// @Description Creates an invoice, credit note or purchase order in DRAFT status
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document to create"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.CreateDocument(c.Request.Context(), req, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to create document")
		return
	}

	logger.Info("Document created", slog.String("document_id", doc.DocumentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// getDocument godoc
// @Summary Get a financial document
// @Description Retrieves a document with its items and computed totals
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{documentID} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to retrieve document")
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// listDocuments godoc
// @Summary List an organization's documents
// @Description Retrieves a paginated list of documents, newest first
// @Tags documents
// @Produce json
// @Param organizationID path string true "Organization ID"
// @Param type query string false "Document type filter"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /organizations/{organizationID}/documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	params := dto.ListDocumentsParams{}
	if t := c.Query("type"); t != "" {
		docType := domain.DocumentType(t)
		params.DocumentType = &docType
	}
	if l := c.Query("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.documentService.ListDocuments(c.Request.Context(), organizationID, actorID, params)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to list documents")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateDocument godoc
// @Summary Update a financial document
// @Description Patches the document header and optionally replaces its items
// @Tags documents
// @Accept json
// @Produce json
// @Param documentID path string true "Document ID"
// @Param document body dto.UpdateDocumentRequest true "Fields to update"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /documents/{documentID} [put]
func (h *documentHandler) updateDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), documentID, req, actorID)
	if err != nil {
		respondDocumentError(c, logger, err, "Failed to update document")
		return
	}

	logger.Info("Document updated", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// deleteDocument godoc
// @Summary Delete a draft document
// @Description Deletes a DRAFT document; approved or pending documents cannot be deleted
// @Tags documents
// @Produce json
// @Param documentID path string true "Document ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /documents/{documentID} [delete]
func (h *documentHandler) deleteDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), documentID, actorID); err != nil {
		respondDocumentError(c, logger, err, "Failed to delete document")
		return
	}

	logger.Info("Document deleted", slog.String("document_id", documentID))
	c.Status(http.StatusNoContent)
}

// respondDocumentError maps service errors to HTTP responses. Business rule
// rejections surface their reason; internal failures stay opaque.
func respondDocumentError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotAllowed):
		logger.Warn("Operation not allowed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
