package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"marithon/internal/intake"
	"marithon/internal/service"
)

// ExtractHandler runs extraction over a file without storing it.
type ExtractHandler struct {
	documentService service.DocumentService
	maxBytes        int64
}

// NewExtractHandler creates a new ExtractHandler. maxBytes caps the upload size.
func NewExtractHandler(documentService service.DocumentService, maxBytes int64) *ExtractHandler {
	return &ExtractHandler{documentService: documentService, maxBytes: maxBytes}
}

// Extract handles POST /api/v1/extract
// @Summary Extract a Statement of Facts
// @Description Parse an uploaded file and return business data, vessel info, events, intervals and meta. Nothing is stored.
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement of Facts (pdf, docx, doc, txt)"
// @Param debug query bool false "Include sample lines"
// @Param force_ocr query bool false "Transcribe PDFs with an OCR provider"
// @Param threshold query number false "Classification threshold (0..1)"
// @Success 200 {object} Response{data=domain.ExtractionResult}
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Extraction failed"
// @Failure 429 {object} ErrorResponseBody "OCR provider rate limited"
// @Router /extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	opts, ok := parseExtractOptions(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := intake.Check(header.Filename, file, header.Size, h.maxBytes); err != nil {
		HandleError(c, err)
		return
	}

	var r io.Reader = file
	if h.maxBytes > 0 {
		r = io.LimitReader(file, h.maxBytes+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		HandleError(c, err)
		return
	}

	res, err := h.documentService.Extract(c.Request.Context(), header.Filename, content, opts)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}
