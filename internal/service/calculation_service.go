package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marithon/internal/domain"
	"marithon/internal/export"
	"marithon/internal/laytime"
	"marithon/internal/port"
	"marithon/internal/validator"
)

// CreateCalculationInput is the DTO for creating a calculation.
type CreateCalculationInput struct {
	UserID uuid.UUID          `json:"-"`
	Form   domain.LaytimeForm `json:"form"`
	// DocumentID prefills empty form fields and seeds events from a
	// processed document.
	DocumentID *uuid.UUID `json:"document_id"`
	// SampleEvents seeds the demonstration timeline when no document events
	// are available.
	SampleEvents bool `json:"sample_events"`
}

// EventInput is the DTO for adding or editing a timeline row.
type EventInput struct {
	Event string    `json:"event" binding:"required"`
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// CalculationView is a calculation with its decoded form, events and the
// derived chart and summary text.
type CalculationView struct {
	ID         uuid.UUID            `json:"id"`
	DocumentID *uuid.UUID           `json:"document_id"`
	Form       domain.LaytimeForm   `json:"form"`
	Events     []domain.EventRecord `json:"events"`
	Result     domain.LaytimeResult `json:"result"`
	Chart      domain.ChartSlices   `json:"chart"`
	Summary    string               `json:"summary"`
	Warnings   []laytime.Warning    `json:"warnings,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// CalculationService defines the laytime calculation contract.
type CalculationService interface {
	Create(ctx context.Context, input CreateCalculationInput) (*CalculationView, error)
	Get(ctx context.Context, userID, calcID uuid.UUID) (*CalculationView, error)
	List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]CalculationView, int, error)
	Delete(ctx context.Context, userID, calcID uuid.UUID) error
	AddEvent(ctx context.Context, userID, calcID uuid.UUID, input EventInput) (*CalculationView, error)
	UpdateEvent(ctx context.Context, userID, calcID uuid.UUID, index int, input EventInput) (*CalculationView, error)
	SetEventPercent(ctx context.Context, userID, calcID uuid.UUID, index int, percent string) (*CalculationView, error)
	DeleteEvent(ctx context.Context, userID, calcID uuid.UUID, index int) (*CalculationView, error)
	Import(ctx context.Context, userID uuid.UUID, data []byte) (*CalculationView, error)
	Export(ctx context.Context, userID, calcID uuid.UUID, format domain.ExportFormat) (*export.File, error)
}

type calculationService struct {
	calcRepo port.CalculationRepository
	docRepo  port.DocumentRepository
	now      func() time.Time
}

// NewCalculationService creates a new CalculationService implementation.
func NewCalculationService(calcRepo port.CalculationRepository, docRepo port.DocumentRepository) CalculationService {
	return &calculationService{
		calcRepo: calcRepo,
		docRepo:  docRepo,
		now:      time.Now,
	}
}

func (s *calculationService) Create(ctx context.Context, input CreateCalculationInput) (*CalculationView, error) {
	form := input.Form
	var events []domain.EventRecord

	if input.DocumentID != nil {
		doc, err := s.docRepo.GetByID(ctx, input.UserID, *input.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc.Status != domain.DocumentStatusCompleted {
			return nil, domain.ErrDocumentNotProcessed
		}
		res, err := validator.Decode(doc.Result)
		if err != nil {
			return nil, fmt.Errorf("calculationService.Create: %w", err)
		}
		form = laytime.Prefill(form, laytime.FormFromBusinessData(res.BusinessData))
		events = laytime.EventsFromExtraction(res.Events, laytime.ParseInput(form.AllowedLaytime))
	}
	if form.Operation == "" {
		form.Operation = form.OperationOrDefault()
	}

	result := laytime.CalculateForm(form)
	if len(events) == 0 && input.SampleEvents {
		events = laytime.SampleEvents(result.AllowedDays)
	}

	view, err := s.store(ctx, input.UserID, input.DocumentID, form, events, result)
	if err != nil {
		return nil, err
	}
	view.Warnings = laytime.CheckForm(form)
	return view, nil
}

func (s *calculationService) Get(ctx context.Context, userID, calcID uuid.UUID) (*CalculationView, error) {
	calc, err := s.calcRepo.GetByID(ctx, userID, calcID)
	if err != nil {
		return nil, err
	}
	return viewOf(calc)
}

func (s *calculationService) List(ctx context.Context, userID uuid.UUID, offset, limit int) ([]CalculationView, int, error) {
	calcs, total, err := s.calcRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	views := make([]CalculationView, 0, len(calcs))
	for i := range calcs {
		v, err := viewOf(&calcs[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

func (s *calculationService) Delete(ctx context.Context, userID, calcID uuid.UUID) error {
	return s.calcRepo.Delete(ctx, userID, calcID)
}

func (s *calculationService) AddEvent(ctx context.Context, userID, calcID uuid.UUID, input EventInput) (*CalculationView, error) {
	return s.editEvents(ctx, userID, calcID, func(calc *domain.Calculation, events []domain.EventRecord) ([]domain.EventRecord, error) {
		row, err := laytime.NewEventRow(input.Event, input.Start, input.End, calc.AllowedDays)
		if err != nil {
			return nil, err
		}
		return append(events, row), nil
	})
}

func (s *calculationService) UpdateEvent(ctx context.Context, userID, calcID uuid.UUID, index int, input EventInput) (*CalculationView, error) {
	return s.editEvents(ctx, userID, calcID, func(calc *domain.Calculation, events []domain.EventRecord) ([]domain.EventRecord, error) {
		if index < 0 || index >= len(events) {
			return nil, domain.ErrEventOutOfRange
		}
		row, err := laytime.NewEventRow(input.Event, input.Start, input.End, calc.AllowedDays)
		if err != nil {
			return nil, err
		}
		row.PercentUtilization = events[index].PercentUtilization
		row.LaytimeConsumed = events[index].LaytimeConsumed
		events[index] = row
		return events, nil
	})
}

func (s *calculationService) SetEventPercent(ctx context.Context, userID, calcID uuid.UUID, index int, percent string) (*CalculationView, error) {
	return s.editEvents(ctx, userID, calcID, func(_ *domain.Calculation, events []domain.EventRecord) ([]domain.EventRecord, error) {
		if index < 0 || index >= len(events) {
			return nil, domain.ErrEventOutOfRange
		}
		percent = strings.TrimSpace(percent)
		if percent == "" {
			percent = "0"
		}
		events[index].PercentUtilization = percent
		return events, nil
	})
}

func (s *calculationService) DeleteEvent(ctx context.Context, userID, calcID uuid.UUID, index int) (*CalculationView, error) {
	return s.editEvents(ctx, userID, calcID, func(_ *domain.Calculation, events []domain.EventRecord) ([]domain.EventRecord, error) {
		if index < 0 || index >= len(events) {
			return nil, domain.ErrEventOutOfRange
		}
		return append(events[:index], events[index+1:]...), nil
	})
}

func (s *calculationService) Import(ctx context.Context, userID uuid.UUID, data []byte) (*CalculationView, error) {
	doc, err := export.ImportJSON(data)
	if err != nil {
		return nil, err
	}
	form := doc.FormData
	view, err := s.store(ctx, userID, nil, form, doc.EventsData, laytime.CalculateForm(form))
	if err != nil {
		return nil, err
	}
	view.Warnings = laytime.CheckForm(form)
	return view, nil
}

func (s *calculationService) Export(ctx context.Context, userID, calcID uuid.UUID, format domain.ExportFormat) (*export.File, error) {
	calc, err := s.calcRepo.GetByID(ctx, userID, calcID)
	if err != nil {
		return nil, err
	}
	form, err := calc.Form()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	events, err := calc.Events()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}

	report := export.NewReport(form, events, calc.LaytimeResult, calc.CreatedAt, s.now())
	file, err := export.Render(ctx, format, report)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("calculation_id", calcID.String()).
		Str("format", string(format)).
		Int("bytes", len(file.Body)).
		Msg("calculation exported")
	return file, nil
}

func (s *calculationService) store(
	ctx context.Context,
	userID uuid.UUID,
	docID *uuid.UUID,
	form domain.LaytimeForm,
	events []domain.EventRecord,
	result domain.LaytimeResult,
) (*CalculationView, error) {
	if events == nil {
		events = []domain.EventRecord{}
	}
	formJSON, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("calculationService.store: encoding form: %w", err)
	}
	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("calculationService.store: encoding events: %w", err)
	}

	now := s.now().UTC()
	calc := &domain.Calculation{
		ID:            uuid.New(),
		UserID:        userID,
		DocumentID:    docID,
		FormData:      formJSON,
		EventsData:    eventsJSON,
		LaytimeResult: result,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.calcRepo.Create(ctx, calc); err != nil {
		return nil, fmt.Errorf("calculationService.store: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("calculation_id", calc.ID.String()).
		Str("mode", string(result.Mode)).
		Float64("amount", result.Amount).
		Msg("calculation created")
	return viewOf(calc)
}

type eventEdit func(calc *domain.Calculation, events []domain.EventRecord) ([]domain.EventRecord, error)

func (s *calculationService) editEvents(ctx context.Context, userID, calcID uuid.UUID, edit eventEdit) (*CalculationView, error) {
	calc, err := s.calcRepo.GetByID(ctx, userID, calcID)
	if err != nil {
		return nil, err
	}
	events, err := calc.Events()
	if err != nil {
		return nil, fmt.Errorf("calculationService.editEvents: %w", err)
	}

	events, err = edit(calc, events)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.EventRecord{}
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("calculationService.editEvents: encoding events: %w", err)
	}
	calc.EventsData = raw
	calc.UpdatedAt = s.now().UTC()
	if err := s.calcRepo.UpdateEvents(ctx, calc); err != nil {
		return nil, fmt.Errorf("calculationService.editEvents: %w", err)
	}
	return viewOf(calc)
}

func viewOf(calc *domain.Calculation) (*CalculationView, error) {
	form, err := calc.Form()
	if err != nil {
		return nil, err
	}
	events, err := calc.Events()
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.EventRecord{}
	}
	return &CalculationView{
		ID:         calc.ID,
		DocumentID: calc.DocumentID,
		Form:       form,
		Events:     events,
		Result:     calc.LaytimeResult,
		Chart:      laytime.Chart(calc.RequiredDays, calc.AllowedDays),
		Summary:    laytime.Summary(form, calc.LaytimeResult),
		CreatedAt:  calc.CreatedAt,
		UpdatedAt:  calc.UpdatedAt,
	}, nil
}
