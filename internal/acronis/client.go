package acronis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/edvin/clinicguard/internal/metrics"
)

const vendor = "acronis"

// defaultTokenTTL applies when the identity endpoint omits expires_in.
const defaultTokenTTL = time.Hour

// ErrNotConfigured is returned on first use when client credentials are missing.
var ErrNotConfigured = errors.New("acronis client credentials are not configured")

// APIError is a non-2xx response from the Acronis API.
type APIError struct {
	Method   string
	Endpoint string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("acronis %s %s: status %d: %s", e.Method, e.Endpoint, e.Status, e.Body)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	tokens       *TokenCache
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore replaces the in-memory token slot, e.g. with a RedisTokenStore.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens.store = store }
}

func NewClient(baseURL, clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	c.tokens = NewTokenCache(nil, c.fetchToken)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a bearer token, fetching a new one when the cached one is stale.
func (c *Client) Token(ctx context.Context) (string, error) {
	return c.tokens.Get(ctx)
}

func (c *Client) fetchToken(ctx context.Context) (*Token, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, ErrNotConfigured
	}

	cc := clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.baseURL + "/api/2/idp/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	metrics.ObserveTokenRefresh(vendor, err)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, &APIError{
				Method:   http.MethodPost,
				Endpoint: "/api/2/idp/token",
				Status:   retrieveErr.Response.StatusCode,
				Body:     string(retrieveErr.Body),
			}
		}
		return nil, fmt.Errorf("fetch acronis token: %w", err)
	}

	ttl := defaultTokenTTL
	if !tok.Expiry.IsZero() {
		ttl = time.Until(tok.Expiry).Round(time.Second)
	}
	return &Token{AccessToken: tok.AccessToken, TTL: ttl}, nil
}

// request sends an authenticated JSON request. A nil result discards the body.
func (c *Client) request(ctx context.Context, method, endpoint string, body, result any) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveVendorRequest(vendor, method, 0, started)
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObserveVendorRequest(vendor, method, resp.StatusCode, started)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Body: string(respBody)}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return nil
}
