package handlers

import (
	"fmt"
	"io"
	"strconv"

	"eac-registry/internal/adapters/http/middleware"
	"eac-registry/internal/core/services"
	"eac-registry/internal/pkg/response"
	"eac-registry/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles uploads, signed downloads and document review
type DocumentHandler struct {
	documentService *services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload stores a document against an editable application
// @Summary Upload document
// @Description Multipart upload. Single-instance document types are replaced; a duplicate file is refused.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param document_type formData string true "Document type tag"
// @Param file formData file true "Document"
// @Success 201 {object} response.Response{data=services.UploadResult}
// @Failure 400 {object} response.Problem
// @Failure 409 {object} response.Problem
// @Failure 429 {object} response.Problem
// @Router /applications/{id}/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return response.Validation(c, map[string]string{"file": "is required"})
	}
	docType := c.FormValue("document_type", c.Query("document_type"))
	if docType == "" {
		return response.Validation(c, map[string]string{"document_type": "is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return handleError(c, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return handleError(c, fmt.Errorf("read upload: %w", err))
	}

	result, err := h.documentService.Upload(c.UserContext(), middleware.Actor(c), c.Params("id"), &services.UploadInput{
		DocumentType: docType,
		Filename:     fh.Filename,
		DeclaredMIME: fh.Header.Get(fiber.HeaderContentType),
		DeclaredSize: fh.Size,
		Content:      content,
	})
	if err != nil {
		return handleError(c, err)
	}

	if result.Unchanged {
		return response.Success(c, "Document already uploaded", result)
	}
	return response.Created(c, "Document uploaded", result)
}

// List returns the documents of an application
// @Summary List documents
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Response
// @Router /applications/{id}/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	docs, err := h.documentService.List(c.UserContext(), middleware.Actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Documents retrieved successfully", docs)
}

// PresignURL returns a short-lived download link
// @Summary Document download link
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param docId path int true "Document ID"
// @Success 200 {object} response.Response{data=storage.PresignedURL}
// @Router /documents/{docId}/url [get]
func (h *DocumentHandler) PresignURL(c *fiber.Ctx) error {
	docID, err := docIDParam(c)
	if err != nil {
		return handleError(c, err)
	}

	url, err := h.documentService.PresignURL(c.UserContext(), middleware.Actor(c), docID)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Download link created", url)
}

// Delete removes a document from an editable application
// @Summary Delete document
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param docId path int true "Document ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Problem
// @Router /documents/{docId} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	docID, err := docIDParam(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.documentService.Delete(c.UserContext(), middleware.Actor(c), docID); err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Document deleted", nil)
}

// Verify records a staff verify/reject decision
// @Summary Verify or reject document
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param docId path int true "Document ID"
// @Param body body services.VerifyDocumentInput true "Decision"
// @Success 200 {object} response.Response
// @Router /admin/documents/{docId} [patch]
func (h *DocumentHandler) Verify(c *fiber.Ctx) error {
	docID, err := docIDParam(c)
	if err != nil {
		return handleError(c, err)
	}
	var req services.VerifyDocumentInput
	if err := parseBody(c, &req); err != nil {
		return handleError(c, err)
	}

	doc, err := h.documentService.Verify(c.UserContext(), middleware.Actor(c), docID, &req)
	if err != nil {
		return handleError(c, err)
	}

	return response.Success(c, "Document updated", doc)
}

// Download serves a file behind a signed token
// @Summary Download file
// @Tags Documents
// @Produce octet-stream
// @Param token path string true "Signed file token"
// @Success 200 {file} file
// @Failure 401 {object} response.Problem
// @Router /files/{token} [get]
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	file, err := h.documentService.Download(c.UserContext(), c.Params("token"))
	if err != nil {
		return handleError(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Send(file.Content)
}

func docIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("docId"), 10, 64)
	if err != nil || id == 0 {
		return 0, validation.Field("docId", "must be a positive integer")
	}
	return uint(id), nil
}
