package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marithon/internal/export"
	"marithon/internal/service"
)

// maxImportBytes caps the size of an imported calculation file.
const maxImportBytes = 5 << 20

// CalculationHandler handles laytime calculation endpoints.
type CalculationHandler struct {
	calcService service.CalculationService
}

// NewCalculationHandler creates a new CalculationHandler.
func NewCalculationHandler(calcService service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

// Create handles POST /api/v1/calculations
// @Summary Calculate laytime
// @Description Compute demurrage or dispatch from form values. Numeric fields are raw text; invalid values are treated as 0 and reported in warnings.
// @Tags calculations
// @Accept json
// @Produce json
// @Param body body CreateCalculationRequest true "Form values"
// @Success 201 {object} Response{data=service.CalculationView}
// @Failure 400 {object} ErrorResponseBody "Invalid request or document not processed"
// @Security BearerAuth
// @Router /calculations [post]
func (h *CalculationHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.CreateCalculationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.UserID = userID

	view, err := h.calcService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// List handles GET /api/v1/calculations
// @Summary List calculations
// @Tags calculations
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]service.CalculationView,meta=PagMeta}
// @Security BearerAuth
// @Router /calculations [get]
func (h *CalculationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)
	views, total, err := h.calcService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, views, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/calculations/:id
// @Summary Get a calculation
// @Tags calculations
// @Produce json
// @Param id path string true "Calculation ID (UUID)"
// @Success 200 {object} Response{data=service.CalculationView}
// @Failure 404 {object} ErrorResponseBody "Calculation not found"
// @Security BearerAuth
// @Router /calculations/{id} [get]
func (h *CalculationHandler) GetByID(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}

	view, err := h.calcService.Get(c.Request.Context(), userID, calcID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Delete handles DELETE /api/v1/calculations/:id
// @Summary Delete a calculation
// @Tags calculations
// @Produce json
// @Param id path string true "Calculation ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Calculation not found"
// @Security BearerAuth
// @Router /calculations/{id} [delete]
func (h *CalculationHandler) Delete(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.calcService.Delete(c.Request.Context(), userID, calcID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "calculation deleted"})
}

// AddEvent handles POST /api/v1/calculations/:id/events
// @Summary Add a timeline event
// @Tags calculations
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID (UUID)"
// @Param body body service.EventInput true "Event"
// @Success 200 {object} Response{data=service.CalculationView}
// @Failure 400 {object} ErrorResponseBody "Invalid event"
// @Security BearerAuth
// @Router /calculations/{id}/events [post]
func (h *CalculationHandler) AddEvent(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}

	var input service.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.calcService.AddEvent(c.Request.Context(), userID, calcID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// UpdateEvent handles PUT /api/v1/calculations/:id/events/:index
// @Summary Edit a timeline event
// @Description Replaces the description and times of a row. Percent and consumed values are kept.
// @Tags calculations
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID (UUID)"
// @Param index path int true "Row index"
// @Param body body service.EventInput true "Event"
// @Success 200 {object} Response{data=service.CalculationView}
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Security BearerAuth
// @Router /calculations/{id}/events/{index} [put]
func (h *CalculationHandler) UpdateEvent(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var input service.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.calcService.UpdateEvent(c.Request.Context(), userID, calcID, index, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// SetEventPercent handles PATCH /api/v1/calculations/:id/events/:index/percent
// @Summary Set the percent utilization of an event
// @Tags calculations
// @Accept json
// @Produce json
// @Param id path string true "Calculation ID (UUID)"
// @Param index path int true "Row index"
// @Param body body PercentRequest true "Percent"
// @Success 200 {object} Response{data=service.CalculationView}
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Security BearerAuth
// @Router /calculations/{id}/events/{index}/percent [patch]
func (h *CalculationHandler) SetEventPercent(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	var req PercentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.calcService.SetEventPercent(c.Request.Context(), userID, calcID, index, req.Percent)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// DeleteEvent handles DELETE /api/v1/calculations/:id/events/:index
// @Summary Delete a timeline event
// @Tags calculations
// @Produce json
// @Param id path string true "Calculation ID (UUID)"
// @Param index path int true "Row index"
// @Success 200 {object} Response{data=service.CalculationView}
// @Failure 404 {object} ErrorResponseBody "Event not found"
// @Security BearerAuth
// @Router /calculations/{id}/events/{index} [delete]
func (h *CalculationHandler) DeleteEvent(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}

	view, err := h.calcService.DeleteEvent(c.Request.Context(), userID, calcID, index)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Export handles GET /api/v1/calculations/:id/export
// @Summary Export a calculation
// @Description Download the stored form, events and laytime summary. A failed PDF render falls back to HTML.
// @Tags calculations
// @Produce application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv,application/json,text/html
// @Param id path string true "Calculation ID (UUID)"
// @Param format query string false "pdf, xlsx, csv, json or html" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 404 {object} ErrorResponseBody "Calculation not found"
// @Security BearerAuth
// @Router /calculations/{id}/export [get]
func (h *CalculationHandler) Export(c *gin.Context) {
	userID, calcID, ok := h.ids(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.DefaultQuery("format", "pdf"))
	if err != nil {
		HandleError(c, err)
		return
	}

	file, err := h.calcService.Export(c.Request.Context(), userID, calcID, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Import handles POST /api/v1/calculations/import
// @Summary Import a calculation
// @Description Recreate a calculation from a JSON export, sent as the request body or as a multipart "file" field
// @Tags calculations
// @Accept json,multipart/form-data
// @Produce json
// @Param file formData file false "JSON export"
// @Success 201 {object} Response{data=service.CalculationView}
// @Failure 400 {object} ErrorResponseBody "Malformed import file"
// @Security BearerAuth
// @Router /calculations/import [post]
func (h *CalculationHandler) Import(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	data, err := readImport(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_IMPORT", err.Error())
		return
	}

	view, err := h.calcService.Import(c.Request.Context(), userID, data)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

func (h *CalculationHandler) ids(c *gin.Context) (userID, calcID uuid.UUID, ok bool) {
	userID, ok = requireUserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	calcID, ok = parseIDParam(c, "id", "calculation")
	return userID, calcID, ok
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "event index must be an integer")
		return 0, false
	}
	return index, true
}

func readImport(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			return nil, errors.New("file field is required")
		}
		defer func() { _ = file.Close() }()
		return readLimited(file)
	}
	return readLimited(c.Request.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	if len(data) > maxImportBytes {
		return nil, fmt.Errorf("import exceeds %d bytes", maxImportBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("import body is empty")
	}
	return data, nil
}
