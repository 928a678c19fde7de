package icd11

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayushsync/terminology-api/ayushparser"
	"github.com/ayushsync/terminology-api/ayushparser/entities"
	"github.com/ayushsync/terminology-api/logging"
	"github.com/ayushsync/terminology-api/metrics"
)

const (
	defaultTokenURL    = "https://icdaccessmanagement.who.int/connect/token"
	defaultBaseURL     = "https://id.who.int/icd/release/11/2024-01"
	defaultTimeout     = 8 * time.Second
	defaultResponseTTL = 10 * time.Minute

	// Fallback token lifetime when the token endpoint omits expires_in.
	defaultTokenLifetime = 50 * time.Minute
)

// Options configures a Client. Either the client-credential pair or the
// manual token must be set.
type Options struct {
	ClientID     string
	ClientSecret string
	ManualToken  string
	TokenURL     string
	BaseURL      string
	Timeout      time.Duration
	ResponseTTL  time.Duration
	Clock        func() time.Time
}

// Client is the WHO ICD-11 API gateway. Failures never abort an overall
// search: callers receive an error they are expected to degrade on.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	manualToken  string
	tokenURL     string
	baseURL      string
	tokens       *TokenCache
	responses    *ResponseCache
}

// NewClient creates an ICD-11 gateway client.
func NewClient(opts Options) *Client {
	if opts.TokenURL == "" {
		opts.TokenURL = defaultTokenURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ResponseTTL <= 0 {
		opts.ResponseTTL = defaultResponseTTL
	}

	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		manualToken:  opts.ManualToken,
		tokenURL:     opts.TokenURL,
		baseURL:      opts.BaseURL,
		tokens:       NewTokenCache(opts.Clock),
		responses:    NewResponseCache(opts.ResponseTTL, opts.Clock),
	}
}

// ResponseCache exposes the response cache for scheduled sweeping.
func (c *Client) ResponseCache() *ResponseCache {
	return c.responses
}

// GetToken returns a bearer token: the operator-supplied manual override if
// configured, a cached token if still valid, otherwise a fresh one via the
// client-credentials grant.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.manualToken != "" {
		return c.manualToken, nil
	}

	if token := c.tokens.Get(); token != "" {
		return token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"scope":         {"icdapi_access"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close token response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned an empty token")
	}

	lifetime := defaultTokenLifetime
	if payload.ExpiresIn > 0 {
		lifetime = time.Duration(payload.ExpiresIn) * time.Second
	}
	c.tokens.Set(payload.AccessToken, lifetime)
	metrics.ICDTokenRefreshes.Inc()

	return payload.AccessToken, nil
}

// get performs an authenticated GET against the WHO API, serving from the
// response cache when possible.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	if body, ok := c.responses.Get(requestURL); ok {
		metrics.ICDGatewayRequests.WithLabelValues("get", "cache_hit").Inc()
		return body, nil
	}

	token, err := c.GetToken(ctx)
	if err != nil {
		metrics.ICDGatewayRequests.WithLabelValues("get", "auth_error").Inc()
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("API-Version", "v2")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ICDGatewayRequests.WithLabelValues("get", "network_error").Inc()
		return nil, fmt.Errorf("WHO API request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close WHO API response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		metrics.ICDGatewayRequests.WithLabelValues("get", "upstream_error").Inc()
		return nil, fmt.Errorf("WHO API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read WHO API response: %w", err)
	}

	c.responses.Set(requestURL, body)
	metrics.ICDGatewayRequests.WithLabelValues("get", "ok").Inc()

	return body, nil
}

// SearchICD looks up a free-text term in the ICD-11 MMS linearization and
// returns the normalized destination entities.
func (c *Client) SearchICD(ctx context.Context, term string) ([]entities.ICDEntity, error) {
	requestURL := fmt.Sprintf("%s/mms/search?q=%s&flatResults=true", c.baseURL, url.QueryEscape(term))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var payload struct {
		DestinationEntities []json.RawMessage `json:"destinationEntities"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode WHO search response: %w", err)
	}

	return ayushparser.AdaptICDEntities(payload.DestinationEntities), nil
}

// GetEntity fetches one ICD-11 entity by its numeric or URI identifier.
func (c *Client) GetEntity(ctx context.Context, id string) (json.RawMessage, error) {
	requestURL := id
	if !strings.HasPrefix(id, "http") {
		requestURL = fmt.Sprintf("%s/mms/%s", c.baseURL, url.PathEscape(id))
	}
	return c.get(ctx, requestURL)
}

// GetRoot fetches the linearization root, used by the ICD browser proxy.
func (c *Client) GetRoot(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, c.baseURL+"/mms")
}
