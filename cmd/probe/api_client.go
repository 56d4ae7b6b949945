package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// APIClient talks to the backend as one browser session: the session cookie
// lives in its jar.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &APIClient{
		baseURL: baseURL + "/api",
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Result is the status and raw body of one call.
type Result struct {
	Status int
	Body   string
}

func (r Result) String() string {
	return fmt.Sprintf("%d %s", r.Status, r.Body)
}

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	SemesterID    *int   `json:"semester_id,omitempty"`
	FrontendLevel *int   `json:"frontend_level,omitempty"`
	BackendLevel  *int   `json:"backend_level,omitempty"`
}

func (c *APIClient) Register(req RegisterRequest) (Result, error) {
	return c.do(http.MethodPost, "/auth/register", req)
}

func (c *APIClient) Login(email, password string) (Result, error) {
	return c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *APIClient) Me() (Result, error) {
	return c.do(http.MethodGet, "/auth/me", nil)
}

func (c *APIClient) Logout() (Result, error) {
	return c.do(http.MethodPost, "/auth/logout", nil)
}

func (c *APIClient) do(method, path string, body any) (Result, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return Result{}, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return Result{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Status: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}, nil
}
