package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"forum-sentiment-analyzer/internal/analyzer/config"
	"forum-sentiment-analyzer/internal/analyzer/dto"
	"forum-sentiment-analyzer/pkg/common"
	"forum-sentiment-analyzer/pkg/logger"
	"forum-sentiment-analyzer/pkg/utils"

	"golang.org/x/net/http/httpproxy"
	"golang.org/x/time/rate"
)

// AuthError indicates the token endpoint rejected the stored credentials.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// SentimentAnalyzerRepository defines the interface for the external natural
// language analysis service.
type SentimentAnalyzerRepository interface {
	AnalyzeSentiment(ctx context.Context, text string) (*dto.SentimentResult, error)
}

// ProxySettings is the client-ready proxy configuration derived from the host
// proxy settings. Both HTTP and HTTPS targets use the same proxy URI.
type ProxySettings struct {
	HTTP    string
	HTTPS   string
	NoProxy []string
}

// BuildProxySettings maps host proxy configuration into client proxy
// settings. Returns nil when no proxy host is configured. The scheme is
// socks5 only when the proxy type is exactly "SOCKS5", otherwise tcp;
// credentials are included only when both user and password are set, and the
// port only when non-zero.
func BuildProxySettings(cfg config.Proxy) *ProxySettings {
	if cfg.Host == "" {
		return nil
	}

	scheme := "tcp"
	if cfg.Type == "SOCKS5" {
		scheme = "socks5"
	}

	auth := ""
	if cfg.User != "" && cfg.Password != "" {
		auth = cfg.User + ":" + cfg.Password + "@"
	}

	hostPort := cfg.Host
	if cfg.Port != 0 {
		hostPort = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}

	uri := fmt.Sprintf("%s://%s%s", scheme, auth, hostPort)

	return &ProxySettings{
		HTTP:    uri,
		HTTPS:   uri,
		NoProxy: utils.SplitCommaList(cfg.Bypass),
	}
}

// proxyFunc adapts ProxySettings to a transport proxy callback. The tcp
// scheme used in the settings URI is plain HTTP proxying as far as the
// transport is concerned.
func proxyFunc(ps *ProxySettings) func(*http.Request) (*url.URL, error) {
	if ps == nil {
		return nil
	}
	cfg := httpproxy.Config{
		HTTPProxy:  strings.Replace(ps.HTTP, "tcp://", "http://", 1),
		HTTPSProxy: strings.Replace(ps.HTTPS, "tcp://", "http://", 1),
		NoProxy:    strings.Join(ps.NoProxy, ","),
	}
	fn := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return fn(req.URL)
	}
}

// watsonRepository is an implementation of SentimentAnalyzerRepository that
// talks to an IBM Watson style NLU service with token based authentication.
type watsonRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter

	// token is cached for the lifetime of the repository and refreshed once
	// on a 401 response.
	token string
}

// NewWatsonRepository creates a new instance of watsonRepository.
func NewWatsonRepository(cfg *config.Config, log *logger.Logger) SentimentAnalyzerRepository {
	maxPerMinute := cfg.Watson.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 30
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy := proxyFunc(BuildProxySettings(cfg.Proxy)); proxy != nil {
		transport.Proxy = proxy
	}

	return &watsonRepository{
		client: &http.Client{
			Timeout:   90 * time.Second,
			Transport: transport,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

// generateToken exchanges the stored basic auth credentials for a bearer
// token at the configured token endpoint.
func (r *watsonRepository) generateToken(ctx context.Context) (string, error) {
	tokenURL := fmt.Sprintf("%s?url=%s", r.cfg.Watson.TokenEndpoint, url.QueryEscape(r.cfg.Watson.APIEndpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(r.cfg.Watson.Username, r.cfg.Watson.Password)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return string(body), nil
}

// call sends an authenticated POST to the analysis service, authenticating
// first if no token is cached. On a 401 it re-authenticates once and retries;
// a second 401 is returned to the caller as-is. Other non-2xx responses are
// also returned with their body so the caller can inspect partial errors.
func (r *watsonRepository) call(ctx context.Context, apiURL string, payload interface{}, allowRetry bool) ([]byte, int, error) {
	if r.token == "" {
		token, err := r.generateToken(ctx)
		if err != nil {
			return nil, 0, err
		}
		r.token = token
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Watson-Authorization-Token", r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to call analysis endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read analysis response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && allowRetry {
		r.logger.Warn("Analysis token rejected, re-authenticating")
		r.token = ""
		return r.call(ctx, apiURL, payload, false)
	}

	return body, resp.StatusCode, nil
}

// AnalyzeSentiment submits text for sentiment, emotion, keyword and concept
// analysis. A malformed or error response degrades to a neutral all-zero
// result rather than failing the batch; the degradation is logged.
func (r *watsonRepository) AnalyzeSentiment(ctx context.Context, text string) (*dto.SentimentResult, error) {
	apiURL := fmt.Sprintf("%s/v1/analyze?version=%s", r.cfg.Watson.APIEndpoint, common.AnalyzeVersion)

	payload := dto.AnalyzeRequest{Text: text}
	payload.Features.Keywords.Limit = r.cfg.Watson.MaxKeywords
	payload.Features.Concepts.Limit = r.cfg.Watson.MaxConcepts

	body, status, err := r.call(ctx, apiURL, payload, true)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		r.logger.Warn("Analysis endpoint returned non-OK status, using neutral result",
			logger.IntField("status_code", status),
			logger.StringField("body", string(body)))
	}

	var resp dto.AnalyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		r.logger.Warn("Failed to decode analysis response, using neutral result", logger.ErrorField(err))
	}

	result := &dto.SentimentResult{
		Sentiment: resp.Sentiment.Document.Score,
		Emotion:   resp.Emotion.Document.Emotion,
		Keywords:  resp.Keywords,
		Concepts:  resp.Concepts,
	}
	if result.Keywords == nil {
		result.Keywords = []dto.ExtractedTerm{}
	}
	if result.Concepts == nil {
		result.Concepts = []dto.ExtractedTerm{}
	}

	return result, nil
}
