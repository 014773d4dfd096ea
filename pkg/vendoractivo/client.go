package vendoractivo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the production vendor API base path.
	DefaultBaseURL = "https://europadel-back.vercel.app/api"
	// PageSize is the fixed number of records per list page.
	PageSize = 9
	// DefaultResource is the collection path the production backend serves.
	DefaultResource = "/vendedoractivo"
)

// CredentialProvider supplies the bearer token attached to every
// authenticated call. The client never stores or refreshes it.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a CredentialProvider that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Config holds vendor API client settings.
type Config struct {
	BaseURL  string
	Resource string
	Timeout  time.Duration
	Debug    bool
}

// Client is a typed HTTP client for the vendor record collection.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	resource    string
	credentials CredentialProvider
	debug       bool
}

// NewClient constructs a vendor API client. Zero config values fall back to
// DefaultBaseURL, DefaultResource and a 30s timeout.
func NewClient(cfg Config, credentials CredentialProvider) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Resource == "" {
		cfg.Resource = DefaultResource
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		resource:    "/" + strings.Trim(cfg.Resource, "/"),
		credentials: credentials,
		debug:       cfg.Debug,
	}
}

// List fetches one page of records.
func (c *Client) List(ctx context.Context, page int) (*ListResponse, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(PageSize))

	var resp ListResponse
	if err := c.doRequest(ctx, "list", http.MethodGet, c.resource+"?"+q.Encode(), nil, true, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []Record{}
	}
	return &resp, nil
}

// ToggleFreeze flips the frozen flag of a record server-side and returns
// the resulting state.
func (c *Client) ToggleFreeze(ctx context.Context, id string) (*FreezeResult, error) {
	var resp freezeResponse
	if err := c.doRequest(ctx, "freeze", http.MethodPatch, c.resource+"/"+url.PathEscape(id)+"/freeze", nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ChangeRole sets the role of a record. Only vendor and user are accepted.
func (c *Client) ChangeRole(ctx context.Context, id string, role Role) (*RoleResult, error) {
	if !role.Assignable() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	var resp roleResponse
	body := ChangeRoleRequest{NuevoRol: role}
	if err := c.doRequest(ctx, "role", http.MethodPatch, c.resource+"/"+url.PathEscape(id)+"/rol", body, true, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Delete removes a record. Only the status code is inspected.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doRequest(ctx, "delete", http.MethodDelete, c.resource+"/"+url.PathEscape(id), nil, true, nil)
}

// Login exchanges operator credentials for a bearer token. No credential is
// attached to this call.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	body := LoginRequest{Email: email, Password: password}
	if err := c.doRequest(ctx, "login", http.MethodPost, "/auth/login", body, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs one JSON call against the vendor API and decodes a
// successful response into result (when non-nil). Every failure is returned
// as a *RequestError.
func (c *Client) doRequest(ctx context.Context, op, method, path string, body any, authenticated bool, result any) error {
	fail := func(status int, err error) error {
		return &RequestError{Op: op, StatusCode: status, Err: err}
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fail(0, fmt.Errorf("failed to marshal request: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fail(0, fmt.Errorf("failed to create request: %w", err))
	}
	requestID := uuid.New().String()[:8]
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	if authenticated {
		if c.credentials == nil {
			return fail(0, errors.New("no credential provider configured"))
		}
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return fail(0, fmt.Errorf("failed to obtain credential: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.debug {
		ev := log.Debug().
			Str("request_id", requestID).
			Str("method", method).
			Str("endpoint", c.baseURL+path)
		if op != "login" && len(payload) > 0 {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[VENDOR API] Outgoing request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if c.debug {
		log.Debug().
			Str("request_id", requestID).
			Str("endpoint", path).
			Int("status_code", resp.StatusCode).
			Bytes("response", respBody).
			Msg("[VENDOR API] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, errors.New(errorMessage(respBody, resp.StatusCode)))
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// errorMessage extracts the backend's "message" field from an error body,
// falling back to the status text.
func errorMessage(body []byte, status int) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
		return envelope.Message
	}
	return http.StatusText(status)
}
