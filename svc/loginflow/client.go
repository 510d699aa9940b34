package loginflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// APIError is a non-2xx answer of the authentication API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: %d %s", e.Status, e.Message)
}

// HTTPClient talks to the rentdesk HTTP API. It implements Directory,
// TwoFactorChecker and ProfileFetcher.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*HTTPClient)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp struct {
		envelope
		Session
	}
	body := map[string]string{"email": email, "password": password}
	status, err := c.do(ctx, http.MethodPost, "/auth/sign-in", "", body, &resp)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, errors.Join(ErrInvalidCredentials, &APIError{Status: status, Message: resp.Error})
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Message: resp.Error}
	}
	s := resp.Session
	return &s, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	var resp envelope
	status, err := c.do(ctx, http.MethodPost, "/auth/sign-out", accessToken, nil, &resp)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{Status: status, Message: resp.Error}
	}
	return nil
}

func (c *HTTPClient) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	var resp struct {
		envelope
		Enabled bool `json:"enabled"`
	}
	body := map[string]string{"userId": userID.String()}
	status, err := c.do(ctx, http.MethodPost, "/functions/check-2fa-status", "", body, &resp)
	if err != nil {
		return false, err
	}
	if status != http.StatusOK {
		return false, &APIError{Status: status, Message: resp.Error}
	}
	return resp.Enabled, nil
}

// VerifyLogin maps the soft {verified:false} answer to (false, nil).
func (c *HTTPClient) VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	var resp struct {
		envelope
		Verified *bool `json:"verified"`
	}
	body := map[string]string{"userId": userID.String(), "otp": code}
	status, err := c.do(ctx, http.MethodPost, "/functions/verify-login-otp", "", body, &resp)
	if err != nil {
		return false, err
	}
	switch {
	case status == http.StatusOK && resp.Verified != nil:
		return *resp.Verified, nil
	case status == http.StatusBadRequest && resp.Verified != nil && !*resp.Verified:
		return false, nil
	default:
		return false, &APIError{Status: status, Message: resp.Error}
	}
}

func (c *HTTPClient) Profile(ctx context.Context, accessToken string) (*Profile, error) {
	var resp struct {
		envelope
		Profile
	}
	status, err := c.do(ctx, http.MethodGet, "/auth/profile", accessToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Status: status, Message: resp.Error}
	}
	p := resp.Profile
	return &p, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) (int, error) {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return res.StatusCode, errors.Join(ErrUnavailable, err)
	}
	return res.StatusCode, nil
}

var (
	_ Directory        = (*HTTPClient)(nil)
	_ TwoFactorChecker = (*HTTPClient)(nil)
	_ ProfileFetcher   = (*HTTPClient)(nil)
)
