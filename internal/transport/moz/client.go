// Package moz fetches backlink metrics from the Moz Links API (JSON-RPC 2.0).
package moz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
)

const fetchMethod = "data.site.metrics.fetch"

// Client calls the Moz API with a client-side daily rate limit so a free
// token is not burned through in one browsing session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Config holds the Moz client settings.
type Config struct {
	Token      string
	BaseURL    string
	DailyLimit int
	Logger     *zap.Logger
}

// New creates a Moz client. DailyLimit spreads the allowed calls evenly over
// 24 hours, with a burst of one.
func New(cfg *Config) *Client {
	limit := rate.Inf
	if cfg.DailyLimit > 0 {
		limit = rate.Every(24 * time.Hour / time.Duration(cfg.DailyLimit))
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     cfg.Logger,
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
}

type rpcParams struct {
	Data struct {
		SiteQuery siteQuery `json:"site_query"`
	} `json:"data"`
}

type siteQuery struct {
	Query string `json:"query"`
	Scope string `json:"scope"`
}

type rpcResponse struct {
	Result *struct {
		SiteMetrics *siteMetrics `json:"site_metrics"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type siteMetrics struct {
	DomainAuthority   float64 `json:"domain_authority"`
	PageAuthority     float64 `json:"page_authority"`
	PagesToRootDomain int     `json:"pages_to_root_domain"`
	RootDomainsToRoot int     `json:"root_domains_to_root_domain"`
	SpamScore         float64 `json:"spam_score"`
	LastCrawled       string  `json:"last_crawled"`
}

// DomainMetrics fetches backlink metrics for the given domain. Blocks on the
// rate limiter until a call slot is available or the context expires.
func (c *Client) DomainMetrics(ctx context.Context, domainName string) (*analysis.MozData, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("moz rate limit: %w", err)
	}

	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  fetchMethod,
	}
	req.Params.Data.SiteQuery = siteQuery{Query: domainName, Scope: "domain"}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal moz request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build moz request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-moz-token", c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("moz request: %w: %v", domain.ErrBacklinkProviderError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("moz API status %d: %s: %w",
			resp.StatusCode, bytes.TrimSpace(raw), domain.ErrBacklinkProviderError)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode moz response: %w: %v", domain.ErrBacklinkProviderError, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("moz API error %d: %s: %w",
			rpcResp.Error.Code, rpcResp.Error.Message, domain.ErrBacklinkProviderError)
	}
	if rpcResp.Result == nil || rpcResp.Result.SiteMetrics == nil {
		return nil, fmt.Errorf("moz response missing site_metrics: %w", domain.ErrBacklinkProviderError)
	}

	m := rpcResp.Result.SiteMetrics
	return &analysis.MozData{
		Metrics: &analysis.MozMetrics{
			DomainAuthority: m.DomainAuthority,
			PageAuthority:   m.PageAuthority,
			TotalLinks:      m.PagesToRootDomain,
			LinkingDomains:  m.RootDomainsToRoot,
			SpamScore:       m.SpamScore,
			LastCrawled:     m.LastCrawled,
		},
	}, nil
}
