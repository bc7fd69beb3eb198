package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/directory"
	"github.com/ikkim/member-directory/pkg/logger"
	"github.com/ikkim/member-directory/pkg/util"
)

const defaultTimeout = 30 * time.Second

// ErrNetwork wraps transport failures so callers can tell them from API errors.
var ErrNetwork = errors.New("network error")

// APIError is a non-2xx response from the directory API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
	Data    json.RawMessage   `json:"data"`

	// Set by POST /api/upload instead of data.
	FilePath string `json:"filePath"`
}

// Client talks to the member directory REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LoginResult is what a successful login returns.
type LoginResult struct {
	Account json.RawMessage
	Tokens  util.TokenPair
}

// MemberLogin signs a member in and stores the access token on the client.
func (c *Client) MemberLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	return c.login(ctx, "/api/member/login", "member", email, password)
}

// AdminLogin signs an admin in and stores the access token on the client.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	return c.login(ctx, "/api/admin/login", "admin", email, password)
}

func (c *Client) login(ctx context.Context, path, accountKey, email, password string) (*LoginResult, error) {
	data, err := c.doJSON(ctx, http.MethodPost, path, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	result := &LoginResult{Account: body[accountKey]}
	if err := json.Unmarshal(body["tokens"], &result.Tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens: %w", err)
	}
	c.SetToken(result.Tokens.AccessToken)
	return result, nil
}

// Logout revokes the current token and forgets it locally even when the
// server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	_, err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil)
	c.SetToken("")
	return err
}

// Members fetches GET /api/member/all and normalizes every record.
func (c *Client) Members(ctx context.Context) ([]directory.Record, error) {
	data, err := c.doJSON(ctx, http.MethodGet, "/api/member/all", nil)
	if err != nil {
		return nil, err
	}
	return directory.DecodeMembers(data)
}

// Member fetches GET /api/member/:id.
func (c *Client) Member(ctx context.Context, id uint) (directory.Record, error) {
	data, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/member/%d", id), nil)
	if err != nil {
		return directory.Record{}, err
	}
	return directory.DecodeMember(data)
}

// MemberDetail fetches the aggregated profile view.
func (c *Client) MemberDetail(ctx context.Context, id uint) (*directory.DetailView, error) {
	data, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/member/%d/detail", id), nil)
	if err != nil {
		return nil, err
	}
	var view directory.DetailView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal member detail: %w", err)
	}
	return &view, nil
}

// BusinessRatings is the GET /api/ratings/:businessId payload.
type BusinessRatings struct {
	Ratings []model.Rating `json:"ratings"`
	Average float64        `json:"average"`
	Count   int            `json:"count"`
}

func (c *Client) Ratings(ctx context.Context, businessID uint) (*BusinessRatings, error) {
	data, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/ratings/%d", businessID), nil)
	if err != nil {
		return nil, err
	}
	var out BusinessRatings
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ratings: %w", err)
	}
	return &out, nil
}

// Rate posts a rating for a business as the signed-in member.
func (c *Client) Rate(ctx context.Context, businessID uint, rating float64, message string) (*model.Rating, error) {
	if rating < 0 || rating > 5 {
		return nil, &ValidationError{Fields: map[string]string{"rating": "must be between 0 and 5"}}
	}
	data, err := c.doJSON(ctx, http.MethodPost, "/api/ratings", map[string]interface{}{
		"business_id": businessID,
		"rating":      rating,
		"message":     message,
	})
	if err != nil {
		return nil, err
	}
	var out model.Rating
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating: %w", err)
	}
	return &out, nil
}

// RecordProfileView tells the server the signed-in member opened viewedID's profile.
func (c *Client) RecordProfileView(ctx context.Context, viewedID uint) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/api/profileview", map[string]uint{"viewed_mid": viewedID})
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(reqBody)
	}
	env, err := c.send(ctx, method, path, body, "application/json")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// send performs one request and unwraps the response envelope.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("API request", map[string]interface{}{
		"method": method,
		"path":   path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Error
			apiErr.Message = env.Message
			apiErr.Fields = env.Fields
		}
		if apiErr.Message == "" {
			apiErr.Message = genericMessage(resp.StatusCode)
		}
		logger.Debug("API error response", map[string]interface{}{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
			"code":   apiErr.Code,
		})
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", decodeErr)
	}
	return &env, nil
}

func genericMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Please sign in again"
	case status == http.StatusForbidden:
		return "You do not have access to this"
	case status == http.StatusNotFound:
		return "Not found"
	case status >= 500:
		return "Something went wrong. Please try again later"
	default:
		return "Request failed"
	}
}
