package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"marithon/internal/cache"
	"marithon/internal/domain"
	"marithon/internal/intake"
	"marithon/internal/laytime"
	"marithon/internal/validator"
)

const (
	minBusinessFields = 2
	minTextLines      = 5
)

// Submit validates f, posts it to the extraction endpoint and caches the
// result. A low-confidence result is retried once with OCR forced; when the
// retry fails the first result is kept. Concurrent calls for the same file
// share one request.
func (c *Client) Submit(ctx context.Context, f File) (*domain.ExtractionResult, error) {
	if err := checkFile(f); err != nil {
		return nil, err
	}

	v, err, shared := c.inflight.Do(fileKey(f), func() (interface{}, error) {
		return c.submit(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug().Str("file", f.Name).Msg("joined in-flight submission")
	}
	return v.(*domain.ExtractionResult), nil
}

func (c *Client) submit(ctx context.Context, f File) (*domain.ExtractionResult, error) {
	res, err := c.extract(ctx, f, false)
	if err != nil {
		return nil, fmt.Errorf("client.Submit: %w", err)
	}

	if LowConfidence(res) {
		c.logger.Info().
			Int("business_fields", res.BusinessData.NonEmptyCount()).
			Int("num_lines", res.Meta.NumLines).
			Msg("low confidence extraction, retrying with OCR")
		retried, err := c.extract(ctx, f, true)
		if err != nil {
			c.logger.Warn().Err(err).Msg("OCR retry failed, keeping first result")
		} else {
			res = retried
		}
	}

	if err := c.saveExtraction(ctx, res); err != nil {
		return nil, fmt.Errorf("client.Submit: %w", err)
	}
	return res, nil
}

func (c *Client) extract(ctx context.Context, f File, forceOCR bool) (*domain.ExtractionResult, error) {
	q := url.Values{"debug": {"true"}}
	if forceOCR {
		q.Set("force_ocr", "true")
	}
	var res domain.ExtractionResult
	if err := c.postFile(ctx, "/extract", q, f, false, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LowConfidence reports whether an extraction looks like an image-only
// document: fewer than two business fields or at most five text lines.
func LowConfidence(res *domain.ExtractionResult) bool {
	return res.BusinessData.NonEmptyCount() < minBusinessFields || res.Meta.NumLines <= minTextLines
}

// Upload stores f on the server and returns the queued document.
func (c *Client) Upload(ctx context.Context, f File) (*domain.Document, error) {
	if err := checkFile(f); err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := c.postFile(ctx, "/documents/upload", nil, f, true, &doc); err != nil {
		return nil, fmt.Errorf("client.Upload: %w", err)
	}
	return &doc, nil
}

// OCR extracts (or returns the stored extraction of) a document.
func (c *Client) OCR(ctx context.Context, docID uuid.UUID, forceOCR bool) (*domain.ExtractionResult, error) {
	q := url.Values{}
	if forceOCR {
		q.Set("force_ocr", "true")
	}
	var res domain.ExtractionResult
	err := c.do(ctx, request{method: http.MethodPost, path: "/ocr/" + docID.String(), query: q, auth: true}, &res)
	if err != nil {
		return nil, fmt.Errorf("client.OCR: %w", err)
	}
	return &res, nil
}

// Clauses returns the business data of a processed document.
func (c *Client) Clauses(ctx context.Context, docID uuid.UUID) (*domain.BusinessData, error) {
	var out struct {
		BusinessData *domain.BusinessData `json:"business_data"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: "/clauses/" + docID.String(), auth: true}, &out)
	if err != nil {
		return nil, fmt.Errorf("client.Clauses: %w", err)
	}
	return out.BusinessData, nil
}

// Summaries returns the laytime summary of a processed document.
func (c *Client) Summaries(ctx context.Context, docID uuid.UUID) (*domain.LaytimeSummary, error) {
	var out struct {
		Summary *domain.LaytimeSummary `json:"summary"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: "/summaries/" + docID.String(), auth: true}, &out)
	if err != nil {
		return nil, fmt.Errorf("client.Summaries: %w", err)
	}
	return out.Summary, nil
}

// ProcessDocument runs the stored-document flow: upload, OCR, clauses and
// summaries, merged into one cached result.
func (c *Client) ProcessDocument(ctx context.Context, f File, forceOCR bool) (*domain.ExtractionResult, error) {
	doc, err := c.Upload(ctx, f)
	if err != nil {
		return nil, err
	}
	res, err := c.OCR(ctx, doc.ID, forceOCR)
	if err != nil {
		return nil, err
	}
	if clauses, err := c.Clauses(ctx, doc.ID); err != nil {
		return nil, err
	} else if clauses != nil {
		res.BusinessData = clauses
	}
	summary, err := c.Summaries(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	if summary != nil {
		res.Summary = summary
	}
	if res.DocumentID == "" {
		res.DocumentID = doc.ID.String()
	}

	if err := c.saveExtraction(ctx, res); err != nil {
		return nil, fmt.Errorf("client.ProcessDocument: %w", err)
	}
	return res, nil
}

// CachedExtraction returns the last extraction saved by Submit or
// ProcessDocument.
func (c *Client) CachedExtraction(ctx context.Context) (*domain.ExtractionResult, error) {
	if c.store == nil {
		return nil, domain.ErrNotFound
	}
	raw, err := c.store.Get(ctx, cache.KeyExtraction)
	if err != nil {
		return nil, err
	}
	return validator.DecodeCached(raw)
}

// Prefill maps the cached extraction onto a laytime form, keeping the
// non-empty values of form, and stores the result as the pending prefill.
func (c *Client) Prefill(ctx context.Context, form domain.LaytimeForm) (domain.LaytimeForm, error) {
	res, err := c.CachedExtraction(ctx)
	if err != nil {
		return form, fmt.Errorf("client.Prefill: %w", err)
	}
	filled := laytime.Prefill(form, laytime.FormFromBusinessData(res.BusinessData))
	if c.store != nil {
		if err := c.store.PutJSON(ctx, cache.KeyPrefill, filled); err != nil {
			return filled, fmt.Errorf("client.Prefill: %w", err)
		}
	}
	return filled, nil
}

func (c *Client) saveExtraction(ctx context.Context, res *domain.ExtractionResult) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.PutJSON(ctx, cache.KeyExtraction, res); err != nil {
		return err
	}
	// A prefill derived from the previous extraction no longer applies.
	return c.store.Delete(ctx, cache.KeyPrefill)
}

func checkFile(f File) error {
	if len(f.Content) == 0 {
		return domain.ErrMissingFile
	}
	if _, err := intake.Check(f.Name, bytes.NewReader(f.Content), int64(len(f.Content)), 0); err != nil {
		return err
	}
	return nil
}

func fileKey(f File) string {
	sum := sha256.Sum256(f.Content)
	return f.Name + ":" + hex.EncodeToString(sum[:])
}
