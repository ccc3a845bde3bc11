package bitdefender

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/edvin/clinicguard/internal/metrics"
)

const vendor = "bitdefender"

const (
	ServiceNetwork   = "network"
	ServicePolicies  = "policies"
	ServiceIncidents = "incidents"
	ServicePackages  = "packages"
)

var servicePaths = map[string]string{
	ServiceNetwork:   "/v1.0/jsonrpc/network",
	ServicePolicies:  "/v1.0/jsonrpc/policies",
	ServiceIncidents: "/v1.0/jsonrpc/incidents",
	ServicePackages:  "/v1.0/jsonrpc/packages",
}

// partnerMethods operate at partner level and reject a companyId parameter.
var partnerMethods = map[string]bool{
	"getManagedEndpointDetails": true,
	"getPackageDetails":         true,
	"getInstallationLinks":      true,
}

var ErrUnknownService = errors.New("unknown bitdefender service")

// RPCError is an HTTP failure or a JSON-RPC error envelope. Status is zero for
// envelope errors returned with 200.
type RPCError struct {
	Service string
	Method  string
	Status  int
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("bitdefender %s.%s: status %d: %s", e.Service, e.Method, e.Status, e.Message)
	}
	return fmt.Sprintf("bitdefender %s.%s: rpc error %d: %s", e.Service, e.Method, e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	ID      string         `json:"id"`
}

type rpcErrorBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type rpcResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcErrorBody   `json:"error"`
}

type Client struct {
	baseURL    string
	authHeader string
	companyID  string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient fails when the API key or default company id is missing.
func NewClient(baseURL, apiKey, companyID string, opts ...Option) (*Client, error) {
	if apiKey == "" || companyID == "" {
		return nil, fmt.Errorf("bitdefender api key and company id are required")
	}
	c := &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":")),
		companyID:  companyID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call invokes method on service. Unless the method is partner-level, a
// companyId parameter is added; a non-empty companyId already in params wins.
func (c *Client) Call(ctx context.Context, service, method string, params map[string]any, result any) error {
	path, ok := servicePaths[service]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, service)
	}

	p := make(map[string]any, len(params)+1)
	maps.Copy(p, params)
	if partnerMethods[method] {
		delete(p, "companyId")
	} else if id, _ := p["companyId"].(string); id == "" {
		p["companyId"] = c.companyID
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: p, ID: uuid.NewString()})
	if err != nil {
		return fmt.Errorf("marshal %s.%s: %w", service, method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s.%s: %w", service, method, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	op := service + "." + method
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveVendorRequest(vendor, op, 0, started)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.ObserveVendorRequest(vendor, op, resp.StatusCode, started)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", op, err)
	}

	var envelope rpcResponse
	decodeErr := json.Unmarshal(respBody, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(respBody)
		if decodeErr == nil && envelope.Error != nil {
			msg = envelope.Error.Message
		}
		return &RPCError{Service: service, Method: method, Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s: %w", op, decodeErr)
	}
	if envelope.Error != nil {
		return &RPCError{Service: service, Method: method, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}

	if result == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", op, err)
	}
	return nil
}
