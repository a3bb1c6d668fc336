package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marithon/internal/cli"
	"marithon/internal/config"
	"marithon/internal/domain"
	"marithon/internal/export"
)

var fixedNow = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

// run executes one laytimectl invocation against a cache at cachePath.
func run(t *testing.T, baseURL, cachePath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := cli.NewCLI(cli.Options{
		Client: config.ClientConfig{
			BaseURL:   baseURL,
			Timeout:   5 * time.Second,
			CachePath: cachePath,
		},
		Logger:  zerolog.Nop(),
		Out:     &out,
		Version: "test",
		Now:     func() time.Time { return fixedNow },
	})
	err := c.Execute(context.Background(), args)
	return out.String(), err
}

func tempCache(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "laytimectl.db")
}

var demurrageArgs = []string{
	"calc",
	"--vessel", "MV OCEAN STAR",
	"--port", "Santos",
	"--quantity", "55000",
	"--rate", "10000",
	"--allowed", "5",
	"--demurrage", "20000",
	"--dispatch", "10000",
}

func TestCalc_PrintsSummary(t *testing.T) {
	out, err := run(t, "", ":memory:", demurrageArgs...)
	require.NoError(t, err)

	assert.Contains(t, out, "MV OCEAN STAR")
	assert.Contains(t, out, "10,000")
	assert.Contains(t, out, "Chart: used 5 days, saved 0 days")
	assert.NotContains(t, out, "warning:")
}

func TestCalc_WarnsOnCoercedValues(t *testing.T) {
	out, err := run(t, "", ":memory:", "calc", "--quantity", "lots", "--rate", "10000")
	require.NoError(t, err)

	assert.Contains(t, out, `warning: quantity "lots" is not a number, treated as 0`)
	assert.Contains(t, out, "warning: allowedLaytime empty, treated as 0")
}

func TestCalc_JSON(t *testing.T) {
	out, err := run(t, "", ":memory:", append(demurrageArgs, "--json", "--sample-events")...)
	require.NoError(t, err)

	doc, err := export.ImportJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "MV OCEAN STAR", doc.FormData.Vessel)
	assert.Equal(t, "discharge", doc.FormData.Operation)
	assert.Equal(t, domain.ModeDemurrage, doc.LaytimeData.Mode)
	assert.InDelta(t, 10000, doc.LaytimeData.Amount, 1e-9)
	assert.Len(t, doc.EventsData, 7)
}

func TestCalcThenExport(t *testing.T) {
	cachePath := tempCache(t)
	_, err := run(t, "", cachePath, demurrageArgs...)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "report.csv")
	out, err := run(t, "", cachePath, "export", "--format", "csv", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+dest)

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Form Data")
	assert.Contains(t, string(body), "MV OCEAN STAR")
}

func TestExport_FromFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "calc.json")
	out, err := run(t, "", ":memory:", append(demurrageArgs, "--json")...)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, []byte(out), 0o600))

	dest := filepath.Join(dir, "report.json")
	_, err = run(t, "", ":memory:", "export", "--format", "json", "--from", src, "-o", dest)
	require.NoError(t, err)

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	doc, err := export.ImportJSON(body)
	require.NoError(t, err)
	assert.InDelta(t, 10000, doc.LaytimeData.Amount, 1e-9)
	assert.Equal(t, "2024-03-05T10:00:00Z", doc.LaytimeData.CalculationDate)
}

func TestExport_Errors(t *testing.T) {
	_, err := run(t, "", ":memory:", "export", "--format", "csv")
	assert.ErrorContains(t, err, "no calculation to export")

	_, err = run(t, "", ":memory:", "export", "--format", "docx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func extractionServer(t *testing.T) *httptest.Server {
	t.Helper()
	vessel, port := "MV OCEAN STAR", "Santos"
	rate, qty := 10000.0, 55000.0
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/extract", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": domain.ExtractionResult{
				SchemaVersion: domain.ExtractionSchemaVersion,
				BusinessData:  &domain.BusinessData{Vessel: &vessel, Port: &port, Rate: &rate, Quantity: &qty},
				Events:        []domain.ExtractedEvent{},
				Meta:          domain.ExtractionMeta{ParserMode: "plaintext", NumLines: 42},
			},
		})
	}))
}

func TestExtractThenPrefill(t *testing.T) {
	srv := extractionServer(t)
	defer srv.Close()
	cachePath := tempCache(t)

	file := filepath.Join(t.TempDir(), "sof.txt")
	require.NoError(t, os.WriteFile(file, []byte("STATEMENT OF FACTS\nVessel: MV OCEAN STAR\n"), 0o600))

	out, err := run(t, srv.URL, cachePath, "extract", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Parser: plaintext, 42 lines")
	assert.Contains(t, out, "MV OCEAN STAR")

	out, err = run(t, srv.URL, cachePath, "prefill", "--json")
	require.NoError(t, err)
	var form domain.LaytimeForm
	require.NoError(t, json.Unmarshal([]byte(out), &form))
	assert.Equal(t, "Santos", form.Port)
	assert.Equal(t, "55000", form.Quantity)

	out, err = run(t, srv.URL, cachePath, "calc", "--prefill", "--allowed", "5", "--demurrage", "20000", "--json")
	require.NoError(t, err)
	doc, err := export.ImportJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "MV OCEAN STAR", doc.FormData.Vessel)
	assert.InDelta(t, 10000, doc.LaytimeData.Amount, 1e-9)
}

func TestCalcPrefill_FollowsLatestExtraction(t *testing.T) {
	vessels := []string{"MV ALPHA", "MV BRAVO"}
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		vessel := vessels[min(n, len(vessels)-1)]
		port, rate := "Santos", 10000.0
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": domain.ExtractionResult{
				SchemaVersion: domain.ExtractionSchemaVersion,
				BusinessData:  &domain.BusinessData{Vessel: &vessel, Port: &port, Rate: &rate},
				Events:        []domain.ExtractedEvent{},
				Meta:          domain.ExtractionMeta{ParserMode: "plaintext", NumLines: 42},
			},
		})
	}))
	defer srv.Close()
	cachePath := tempCache(t)

	dir := t.TempDir()
	first := filepath.Join(dir, "alpha.txt")
	second := filepath.Join(dir, "bravo.txt")
	require.NoError(t, os.WriteFile(first, []byte("STATEMENT OF FACTS\nVessel: MV ALPHA\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("STATEMENT OF FACTS\nVessel: MV BRAVO\n"), 0o600))

	_, err := run(t, srv.URL, cachePath, "extract", first)
	require.NoError(t, err)
	_, err = run(t, srv.URL, cachePath, "prefill")
	require.NoError(t, err)
	_, err = run(t, srv.URL, cachePath, "extract", second)
	require.NoError(t, err)

	out, err := run(t, srv.URL, cachePath, "calc", "--prefill", "--json")
	require.NoError(t, err)
	doc, err := export.ImportJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "MV BRAVO", doc.FormData.Vessel)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExtract_RejectsUnsupportedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(file, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	_, err := run(t, "http://127.0.0.1:1", ":memory:", "extract", file)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestPrefill_WithoutExtraction(t *testing.T) {
	_, err := run(t, "", ":memory:", "prefill")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoginWhoamiLogout(t *testing.T) {
	user := domain.User{ID: uuid.New(), Email: "ops@example.com", FirstName: "Ana", Role: domain.RoleUser}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"access_token": "tok-1", "user": user},
			})
		case "/api/v1/auth/logout":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]string{"message": "ok"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	cachePath := tempCache(t)

	out, err := run(t, srv.URL, cachePath, "login", "--email", "ops@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as ops@example.com")

	out, err = run(t, srv.URL, cachePath, "whoami", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "ops@example.com")
	assert.Contains(t, out, "Ana")

	out, err = run(t, srv.URL, cachePath, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, err = run(t, srv.URL, cachePath, "whoami", "--offline")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
