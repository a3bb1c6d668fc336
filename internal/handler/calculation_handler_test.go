package handler_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"marithon/internal/domain"
	"marithon/internal/export"
	"marithon/internal/handler"
	"marithon/internal/service"
	"marithon/mocks"
)

func newCalculationHandler() (*handler.CalculationHandler, *mocks.MockCalculationService) {
	svc := new(mocks.MockCalculationService)
	return handler.NewCalculationHandler(svc), svc
}

func calcParams(id uuid.UUID, index string) gin.Params {
	params := gin.Params{{Key: "id", Value: id.String()}}
	if index != "" {
		params = append(params, gin.Param{Key: "index", Value: index})
	}
	return params
}

func TestCalculationHandler_Create(t *testing.T) {
	h, svc := newCalculationHandler()
	userID := uuid.New()
	calcID := uuid.New()

	svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateCalculationInput) bool {
		return in.UserID == userID && in.Form.Rate == "10000" && in.SampleEvents
	})).Return(&service.CalculationView{
		ID:     calcID,
		Result: domain.LaytimeResult{Mode: domain.ModeDemurrage, Amount: 10000},
	}, nil)

	body := jsonBody(t, map[string]interface{}{
		"form":          map[string]string{"rate": "10000", "quantity": "55000", "allowedLaytime": "5"},
		"sample_events": true,
	})
	c, w := newContext(t, http.MethodPost, "/api/v1/calculations", body, &userID)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), calcID.String())
	assert.Contains(t, w.Body.String(), `"mode":"demurrage"`)
	svc.AssertExpectations(t)
}

func TestCalculationHandler_Create_BadJSON(t *testing.T) {
	h, _ := newCalculationHandler()
	userID := uuid.New()

	c, w := newContext(t, http.MethodPost, "/api/v1/calculations", strings.NewReader("{"), &userID)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeResponse(t, w).Error.Code)
}

func TestCalculationHandler_GetByID_NotFound(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	svc.On("Get", mock.Anything, userID, calcID).Return(nil, domain.ErrCalculationNotFound)

	c, w := newContext(t, http.MethodGet, "/api/v1/calculations/"+calcID.String(), nil, &userID)
	c.Params = calcParams(calcID, "")
	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CALCULATION_NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestCalculationHandler_List(t *testing.T) {
	h, svc := newCalculationHandler()
	userID := uuid.New()
	svc.On("List", mock.Anything, userID, 0, 20).Return([]service.CalculationView{{ID: uuid.New()}}, 1, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/calculations", nil, &userID)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeResponse(t, w).Meta.Total)
}

func TestCalculationHandler_Delete(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	svc.On("Delete", mock.Anything, userID, calcID).Return(nil)

	c, w := newContext(t, http.MethodDelete, "/api/v1/calculations/"+calcID.String(), nil, &userID)
	c.Params = calcParams(calcID, "")
	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "calculation deleted")
}

func TestCalculationHandler_AddEvent(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	svc.On("AddEvent", mock.Anything, userID, calcID, mock.MatchedBy(func(in service.EventInput) bool {
		return in.Event == "Loading" && in.Start.Equal(start) && in.End.Equal(start.Add(4*time.Hour))
	})).Return(&service.CalculationView{ID: calcID, Events: []domain.EventRecord{{Event: "Loading"}}}, nil)

	body := jsonBody(t, map[string]string{
		"event": "Loading",
		"start": "2024-03-01T08:00:00Z",
		"end":   "2024-03-01T12:00:00Z",
	})
	c, w := newContext(t, http.MethodPost, "/api/v1/calculations/"+calcID.String()+"/events", body, &userID)
	c.Params = calcParams(calcID, "")
	h.AddEvent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCalculationHandler_AddEvent_MissingFields(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()

	c, w := newContext(t, http.MethodPost, "/api/v1/calculations/"+calcID.String()+"/events",
		jsonBody(t, map[string]string{"event": "Loading"}), &userID)
	c.Params = calcParams(calcID, "")
	h.AddEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "AddEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculationHandler_SetEventPercent(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	svc.On("SetEventPercent", mock.Anything, userID, calcID, 2, "50").
		Return(&service.CalculationView{ID: calcID}, nil)

	c, w := newContext(t, http.MethodPatch, "/api/v1/calculations/"+calcID.String()+"/events/2/percent",
		jsonBody(t, map[string]string{"percent": "50"}), &userID)
	c.Params = calcParams(calcID, "2")
	h.SetEventPercent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCalculationHandler_UpdateEvent_InvalidIndex(t *testing.T) {
	h, _ := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()

	c, w := newContext(t, http.MethodPut, "/api/v1/calculations/"+calcID.String()+"/events/first", nil, &userID)
	c.Params = calcParams(calcID, "first")
	h.UpdateEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INDEX", decodeResponse(t, w).Error.Code)
}

func TestCalculationHandler_DeleteEvent_OutOfRange(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	svc.On("DeleteEvent", mock.Anything, userID, calcID, 9).Return(nil, domain.ErrEventOutOfRange)

	c, w := newContext(t, http.MethodDelete, "/api/v1/calculations/"+calcID.String()+"/events/9", nil, &userID)
	c.Params = calcParams(calcID, "9")
	h.DeleteEvent(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "EVENT_NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestCalculationHandler_Export(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	svc.On("Export", mock.Anything, userID, calcID, domain.ExportCSV).Return(&export.File{
		Name:        "laytime_MV_OCEAN_STAR.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("Field,Value\n"),
	}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/calculations/"+calcID.String()+"/export?format=CSV", nil, &userID)
	c.Params = calcParams(calcID, "")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="laytime_MV_OCEAN_STAR.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Field,Value\n", w.Body.String())
}

func TestCalculationHandler_Export_DefaultsToPDF(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()
	svc.On("Export", mock.Anything, userID, calcID, domain.ExportPDF).
		Return(&export.File{Name: "laytime.pdf", ContentType: "application/pdf", Body: []byte("%PDF")}, nil)

	c, w := newContext(t, http.MethodGet, "/api/v1/calculations/"+calcID.String()+"/export", nil, &userID)
	c.Params = calcParams(calcID, "")
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCalculationHandler_Export_UnsupportedFormat(t *testing.T) {
	h, svc := newCalculationHandler()
	userID, calcID := uuid.New(), uuid.New()

	c, w := newContext(t, http.MethodGet, "/api/v1/calculations/"+calcID.String()+"/export?format=docx", nil, &userID)
	c.Params = calcParams(calcID, "")
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", decodeResponse(t, w).Error.Code)
	svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculationHandler_Import(t *testing.T) {
	payload := []byte(`{"version":"1.0","formData":{"vessel":"MV OCEAN STAR"},"eventsData":[]}`)

	t.Run("raw body", func(t *testing.T) {
		h, svc := newCalculationHandler()
		userID := uuid.New()
		svc.On("Import", mock.Anything, userID, payload).Return(&service.CalculationView{ID: uuid.New()}, nil)

		c, w := newContext(t, http.MethodPost, "/api/v1/calculations/import", strings.NewReader(string(payload)), &userID)
		h.Import(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("multipart", func(t *testing.T) {
		h, svc := newCalculationHandler()
		userID := uuid.New()
		svc.On("Import", mock.Anything, userID, payload).Return(&service.CalculationView{ID: uuid.New()}, nil)

		body, contentType := multipartBody(t, "file", "laytime.json", payload)
		c, w := newContext(t, http.MethodPost, "/api/v1/calculations/import", body, &userID)
		c.Request.Header.Set("Content-Type", contentType)
		h.Import(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty body", func(t *testing.T) {
		h, svc := newCalculationHandler()
		userID := uuid.New()

		c, w := newContext(t, http.MethodPost, "/api/v1/calculations/import", nil, &userID)
		h.Import(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_IMPORT", decodeResponse(t, w).Error.Code)
		svc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed", func(t *testing.T) {
		h, svc := newCalculationHandler()
		userID := uuid.New()
		svc.On("Import", mock.Anything, userID, []byte("nope")).Return(nil, domain.ErrInvalidImport)

		c, w := newContext(t, http.MethodPost, "/api/v1/calculations/import", strings.NewReader("nope"), &userID)
		h.Import(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
