package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "The river rose quickly after the storm. Neighbors stacked sandbags along the bank. " +
	"By morning the water had reached the old mill, and the road was closed until noon."

func newTestServer(t *testing.T, withHistory bool) (*Server, *store.Store) {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.HTTP.Enabled = false
	cfg.Cache.Enabled = false

	var (
		opts    []pipeline.Option
		history History
		st      *store.Store
	)
	if withHistory {
		var err error
		st, err = store.Open(filepath.Join(t.TempDir(), "history.db"), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		opts = append(opts, pipeline.WithHistory(st))
		history = st
	}

	p := pipeline.NewPipeline(cfg, nil, opts...)
	return New(cfg.Server, p, history, nil), st
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, false)
	do(t, s, http.MethodPost, "/api/v1/text", `{"text":"`+sampleText+`"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "veracity_analyses_total")
}

func TestText(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/api/v1/text", `{"text":"`+sampleText+`","subject":"flood"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, model.KindText, report.Kind)
	assert.Equal(t, "flood", report.Subject)
	require.NotNil(t, report.Text)
	assert.GreaterOrEqual(t, report.Text.Score, 0)
	assert.LessOrEqual(t, report.Text.Score, 100)
}

func TestText_ValidationErrors(t *testing.T) {
	s, _ := newTestServer(t, false)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", `{"text":""}`, "text is empty"},
		{"short", `{"text":"Too short."}`, "text is too short"},
		{"malformed", `{"text":`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/text", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestCompare(t *testing.T) {
	s, _ := newTestServer(t, false)

	body := `{"a":"` + sampleText + `","b":"` + sampleText + `","label_a":"left"}`
	rec := do(t, s, http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.NotNil(t, report.Comparison)
	assert.Equal(t, "tie", report.Comparison.MoreAILike)
	assert.Equal(t, "left", report.Comparison.LabelA)
	assert.Equal(t, "Sample B", report.Comparison.LabelB)

	rec = do(t, s, http.MethodPost, "/api/v1/compare", `{"a":"`+sampleText+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNews(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPost, "/api/v1/news", `{"query":"You won't believe this unbelievable story"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.NotNil(t, report.Credibility)
	assert.Equal(t, 30, report.Credibility.Score)
	assert.Equal(t, model.CredibilityLow, report.Credibility.Level)

	rec = do(t, s, http.MethodPost, "/api/v1/news", `{"query":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	s, _ := newTestServer(t, true)

	rec := do(t, s, http.MethodPost, "/api/v1/text", `{"text":"`+sampleText+`","subject":"saved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)

	rec = do(t, s, http.MethodGet, "/api/v1/history?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []store.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, saved.ID, entries[0].ID)
	assert.Equal(t, "saved", entries[0].Subject)

	rec = do(t, s, http.MethodGet, "/api/v1/history/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, saved.ID, got.ID)

	rec = do(t, s, http.MethodGet, "/api/v1/history/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_Disabled(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type failingAnalyzer struct{}

func (failingAnalyzer) AnalyzeText(ctx context.Context, subject, text string) (*model.Report, error) {
	return nil, errors.New("database exploded")
}

func (failingAnalyzer) Compare(ctx context.Context, a, b pipeline.Sample) (*model.Report, error) {
	return nil, errors.New("database exploded")
}

func (failingAnalyzer) CheckNews(ctx context.Context, query string) (*model.Report, error) {
	return nil, errors.New("database exploded")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	s := New(model.DefaultConfig().Server, failingAnalyzer{}, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/v1/text", `{"text":"anything"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "exploded")
}

func TestMapError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, mapError(pipeline.ErrTextTooLong).Code)
	assert.Equal(t, http.StatusNotFound, mapError(store.ErrNotFound).Code)
	assert.Equal(t, http.StatusInternalServerError, mapError(errors.New("boom")).Code)
}
