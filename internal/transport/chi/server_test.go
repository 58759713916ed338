package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
	domusage "github.com/zoeklicht/zoeklicht/internal/domain/usage"
	auditc "github.com/zoeklicht/zoeklicht/internal/usecase/audit"
	healthuc "github.com/zoeklicht/zoeklicht/internal/usecase/health"
	usageuc "github.com/zoeklicht/zoeklicht/internal/usecase/usage"
)

type mockScraper struct {
	technical *analysis.TechnicalSEO
	scraped   *analysis.ScrapedData
	err       error
}

func (m *mockScraper) Scrape(_ context.Context, _ string) (*analysis.TechnicalSEO, *analysis.ScrapedData, error) {
	return m.technical, m.scraped, m.err
}

type mockInsights struct {
	insight *domain.Insight
	err     error
}

func (m *mockInsights) Generate(_ context.Context, _ *analysis.Input) (*domain.Insight, []domain.SimilarAnalysis, error) {
	return m.insight, nil, m.err
}

type mockGovernorReader struct {
	record domusage.Record
	max    int
}

func (m *mockGovernorReader) UsageStats() domusage.Record { return m.record }
func (m *mockGovernorReader) MaxRequestsPerDay() int      { return m.max }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func newTestRouter(scraper *mockScraper, insights *mockInsights, pingErr error) http.Handler {
	logger := zap.NewNop()
	auditSvc := auditc.New(scraper, nil, insights, logger)
	usageSvc := usageuc.New(&mockGovernorReader{record: domusage.Record{Requests: 7, Tokens: 3500, Cost: 0.01}, max: 100})
	healthSvc := healthuc.New(&mockPinger{err: pingErr}, nil)

	server := NewServer(auditSvc, usageSvc, healthSvc, logger)
	r := chi.NewRouter()
	server.Routes(r)
	return r
}

func healthyScraper() *mockScraper {
	return &mockScraper{
		technical: &analysis.TechnicalSEO{MetaTags: &analysis.MetaTags{Title: "Example"}},
		scraped:   &analysis.ScrapedData{Content: &analysis.Content{WordCount: 100}},
	}
}

func TestCreateAnalysis(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{
		insight: &domain.Insight{Kind: domain.InsightEnhanced, Text: "insight text"},
	}, nil)

	body := bytes.NewBufferString(`{"url":"https://shop.example/"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Insight struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"insight"`
		Report struct {
			Title string `json:"title"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Insight.Text != "insight text" {
		t.Errorf("insight text = %q", resp.Insight.Text)
	}
	if resp.Report.Title != "SEO Analyse Rapport" {
		t.Errorf("report title = %q", resp.Report.Title)
	}
}

func TestCreateAnalysis_BadBody(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{insight: &domain.Insight{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAnalysis_MissingURL(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{insight: &domain.Insight{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateAnalysis_InvalidURL(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{insight: &domain.Insight{}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", bytes.NewBufferString(`{"url":"not a url"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code != codeInvalidURL {
		t.Errorf("code = %q, expected %q", resp.Code, codeInvalidURL)
	}
}

func TestCreateAnalysis_UnreachablePage(t *testing.T) {
	router := newTestRouter(&mockScraper{err: domain.ErrPageUnreachable}, &mockInsights{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", bytes.NewBufferString(`{"url":"https://down.example/"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestCreateAnalysis_ProviderError(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{err: domain.ErrInsightProviderError}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", bytes.NewBufferString(`{"url":"https://shop.example/"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestGetUsage(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/usage", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report domusage.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Record.Requests != 7 {
		t.Errorf("Requests = %d, expected 7", report.Record.Requests)
	}
	if report.Remaining != 93 {
		t.Errorf("Remaining = %d, expected 93", report.Remaining)
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, expected ok", resp.Status)
	}
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := newTestRouter(healthyScraper(), &mockInsights{}, context.DeadlineExceeded)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
