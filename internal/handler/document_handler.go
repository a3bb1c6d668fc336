package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marithon/internal/service"
	"marithon/internal/sof"
)

// DocumentHandler handles Statement of Facts upload and extraction endpoints.
type DocumentHandler struct {
	fileService     service.FileService
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(fileService service.FileService, documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{fileService: fileService, documentService: documentService}
}

// Upload handles POST /api/v1/documents/upload
// @Summary Upload a Statement of Facts
// @Description Store a PDF, DOCX, DOC or TXT file and queue it for extraction
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement of Facts"
// @Success 201 {object} Response{data=domain.Document} "Document queued"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.fileService.Upload(c.Request.Context(), service.FileUploadInput{
		UserID: userID,
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Document,meta=PagMeta}
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	docs, total, err := h.documentService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get document by ID
// @Description Document status and, once completed, its extraction result
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Download handles GET /api/v1/documents/:id/download
// @Summary Get a download URL
// @Description Presigned URL for the original uploaded file
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id", "document")
	if !ok {
		return
	}

	url, err := h.fileService.GetDownloadURL(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id", "document")
	if !ok {
		return
	}

	if err := h.fileService.Delete(c.Request.Context(), userID, docID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "document deleted"})
}

// OCR handles POST /api/v1/ocr/:id
// @Summary Extract a document
// @Description Returns the stored extraction, or runs it now when the document is not processed yet or force_ocr is set
// @Tags extraction
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param debug query bool false "Include sample lines"
// @Param force_ocr query bool false "Transcribe PDFs with an OCR provider"
// @Param threshold query number false "Classification threshold (0..1)"
// @Success 200 {object} Response{data=domain.ExtractionResult}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Document is being processed"
// @Failure 422 {object} ErrorResponseBody "Extraction failed"
// @Failure 429 {object} ErrorResponseBody "OCR provider rate limited"
// @Security BearerAuth
// @Router /ocr/{id} [post]
func (h *DocumentHandler) OCR(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id", "document")
	if !ok {
		return
	}
	opts, ok := parseExtractOptions(c)
	if !ok {
		return
	}

	res, err := h.documentService.RunOCR(c.Request.Context(), userID, docID, opts)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// Clauses handles POST /api/v1/clauses/:id
// @Summary Business data of a document
// @Description The charter-party fields extracted from a processed document
// @Tags extraction
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=ClausesResponse}
// @Failure 400 {object} ErrorResponseBody "Document not processed"
// @Security BearerAuth
// @Router /clauses/{id} [post]
func (h *DocumentHandler) Clauses(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id", "document")
	if !ok {
		return
	}

	data, err := h.documentService.Clauses(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"business_data": data})
}

// Summaries handles POST /api/v1/summaries/:id
// @Summary Laytime summary of a document
// @Description The laytime calculation derived from a processed document's business data
// @Tags extraction
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=SummariesResponse}
// @Failure 400 {object} ErrorResponseBody "Document not processed"
// @Security BearerAuth
// @Router /summaries/{id} [post]
func (h *DocumentHandler) Summaries(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "id", "document")
	if !ok {
		return
	}

	summary, err := h.documentService.Summaries(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"summary": summary})
}

// parseExtractOptions reads debug, force_ocr and threshold query flags,
// writing a 400 when threshold is not a number in [0, 1].
func parseExtractOptions(c *gin.Context) (sof.Options, bool) {
	opts := sof.Options{
		Debug:    queryBool(c, "debug"),
		ForceOCR: queryBool(c, "force_ocr"),
	}
	if raw := c.Query("threshold"); raw != "" {
		th, err := strconv.ParseFloat(raw, 64)
		if err != nil || th < 0 || th > 1 {
			RespondError(c, http.StatusBadRequest, "INVALID_THRESHOLD", "threshold must be a number between 0 and 1")
			return sof.Options{}, false
		}
		opts.Threshold = &th
	}
	return opts, true
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
