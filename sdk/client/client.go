package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Config represents the configuration for the lattice client
type Config struct {
	// BaseURL is the base URL of the lattice service
	BaseURL string
	// Token is the bearer token used to authenticate requests
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the lattice service client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new lattice client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// SetToken sets the bearer token used for subsequent requests
func (c *Client) SetToken(token string) {
	c.config.Token = token
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token string `json:"token"`
}

// Login authenticates against the service and stores the returned token
// on the client
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	endpoint := fmt.Sprintf("%s/api/auth/login", c.config.BaseURL)
	var resp LoginResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	c.config.Token = resp.Token
	return &resp, nil
}

// CreateAccountRequest represents an account provisioning request
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	IsStaff  bool   `json:"is_staff"`
}

// AccountResponse represents a provisioned account
type AccountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAccount provisions a new account in the directory
func (c *Client) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Username == "" || req.Email == "" {
		return nil, errors.New("username and email are required")
	}

	endpoint := fmt.Sprintf("%s/api/accounts", c.config.BaseURL)
	var resp AccountResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &resp, nil
}

// Manager represents one manager in a listing: the effective email plus
// the username, which is null while the manager has no registered account
type Manager struct {
	Email    string  `json:"email"`
	Username *string `json:"username"`
}

// Report represents a managed user under a manager
type Report struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ListManagers lists every distinct manager across all relationships
func (c *Client) ListManagers(ctx context.Context) ([]Manager, error) {
	endpoint := fmt.Sprintf("%s/api/managers", c.config.BaseURL)
	var resp []Manager
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return resp, nil
}

// ListReports lists the users managed by the given manager; the
// identifier may be a username or an email address
func (c *Client) ListReports(ctx context.Context, managerIdentifier string) ([]Report, error) {
	if managerIdentifier == "" {
		return nil, errors.New("manager identifier is required")
	}

	endpoint := fmt.Sprintf("%s/api/managers/%s/reports", c.config.BaseURL, url.PathEscape(managerIdentifier))
	var resp []Report
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return resp, nil
}

// AddReportRequest names the account to place under a manager, by email
// or username
type AddReportRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// AddReport places a single user under the given manager
func (c *Client) AddReport(ctx context.Context, managerIdentifier string, req *AddReportRequest) (*Report, error) {
	if managerIdentifier == "" {
		return nil, errors.New("manager identifier is required")
	}
	if req == nil || (req.Email == "" && req.Username == "") {
		return nil, errors.New("an email or username is required")
	}

	endpoint := fmt.Sprintf("%s/api/managers/%s/reports", c.config.BaseURL, url.PathEscape(managerIdentifier))
	var resp Report
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to add report: %w", err)
	}
	return &resp, nil
}

// BulkError is one failed item of a bulk add
type BulkError struct {
	Detail string `json:"detail"`
}

// BulkAddResponse carries the accepted and rejected items of a bulk add
type BulkAddResponse struct {
	Results []Report    `json:"results"`
	Errors  []BulkError `json:"errors"`
}

// AddReports places several users under the given manager in one call.
// Items that fail to resolve come back in the Errors list; the call as a
// whole still succeeds.
func (c *Client) AddReports(ctx context.Context, managerIdentifier string, reqs []AddReportRequest) (*BulkAddResponse, error) {
	if managerIdentifier == "" {
		return nil, errors.New("manager identifier is required")
	}
	if len(reqs) == 0 {
		return nil, errors.New("at least one report is required")
	}

	endpoint := fmt.Sprintf("%s/api/managers/%s/reports", c.config.BaseURL, url.PathEscape(managerIdentifier))
	var resp BulkAddResponse
	if err := c.post(ctx, endpoint, reqs, &resp); err != nil {
		return nil, fmt.Errorf("failed to add reports: %w", err)
	}
	return &resp, nil
}

// RemoveReports removes reports under the given manager. An empty
// userFilter removes all of them; otherwise only the relationship with
// the matching managed user is removed.
func (c *Client) RemoveReports(ctx context.Context, managerIdentifier, userFilter string) error {
	if managerIdentifier == "" {
		return errors.New("manager identifier is required")
	}

	endpoint := fmt.Sprintf("%s/api/managers/%s/reports", c.config.BaseURL, url.PathEscape(managerIdentifier))
	if userFilter != "" {
		endpoint += "?user=" + url.QueryEscape(userFilter)
	}
	if err := c.delete(ctx, endpoint); err != nil {
		return fmt.Errorf("failed to remove reports: %w", err)
	}
	return nil
}

// ListUserManagers lists the managers of the given user
func (c *Client) ListUserManagers(ctx context.Context, userIdentifier string) ([]Manager, error) {
	if userIdentifier == "" {
		return nil, errors.New("user identifier is required")
	}

	endpoint := fmt.Sprintf("%s/api/users/%s/managers", c.config.BaseURL, url.PathEscape(userIdentifier))
	var resp []Manager
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to list user managers: %w", err)
	}
	return resp, nil
}

// AddManagerRequest names the manager to record for a user
type AddManagerRequest struct {
	Email string `json:"email"`
}

// AddManager records a manager for the given user. The manager email may
// belong to an account that does not exist yet; the relationship is then
// stored against the email and upgraded when the account registers.
func (c *Client) AddManager(ctx context.Context, userIdentifier string, req *AddManagerRequest) (*Manager, error) {
	if userIdentifier == "" {
		return nil, errors.New("user identifier is required")
	}
	if req == nil || req.Email == "" {
		return nil, errors.New("a manager email is required")
	}

	endpoint := fmt.Sprintf("%s/api/users/%s/managers", c.config.BaseURL, url.PathEscape(userIdentifier))
	var resp Manager
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to add manager: %w", err)
	}
	return &resp, nil
}

// RemoveManagers removes the managers of the given user. An empty
// managerFilter removes all of them.
func (c *Client) RemoveManagers(ctx context.Context, userIdentifier, managerFilter string) error {
	if userIdentifier == "" {
		return errors.New("user identifier is required")
	}

	endpoint := fmt.Sprintf("%s/api/users/%s/managers", c.config.BaseURL, url.PathEscape(userIdentifier))
	if managerFilter != "" {
		endpoint += "?manager=" + url.QueryEscape(managerFilter)
	}
	if err := c.delete(ctx, endpoint); err != nil {
		return fmt.Errorf("failed to remove managers: %w", err)
	}
	return nil
}

// APIError represents an error response from the service
type APIError struct {
	StatusCode int    `json:"-"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (Status: %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("request failed (Status: %d)", e.StatusCode)
}

// post performs a POST request to the specified endpoint with the given request and unmarshals the response into the specified response object
func (c *Client) post(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	// Set up context with timeout
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	// Marshal request to JSON
	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// Create HTTP request
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuth(httpReq)

	// Send request
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if err := checkStatus(httpResp); err != nil {
		return err
	}

	// Decode response
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// get performs a GET request to the specified endpoint and unmarshals the response into the specified response object
func (c *Client) get(ctx context.Context, endpoint string, resp interface{}) error {
	// Set up context with timeout
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	// Create HTTP request
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	c.setAuth(httpReq)

	// Send request
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if err := checkStatus(httpResp); err != nil {
		return err
	}

	// Decode response
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// delete performs a DELETE request to the specified endpoint
func (c *Client) delete(ctx context.Context, endpoint string) error {
	// Set up context with timeout
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	// Create HTTP request
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setAuth(httpReq)

	// Send request
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	return checkStatus(httpResp)
}

func (c *Client) setAuth(req *http.Request) {
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

// checkStatus turns a non-success response into an APIError
func checkStatus(httpResp *http.Response) error {
	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		return nil
	}

	// Try to decode error response
	var apiErr APIError
	if err := json.NewDecoder(httpResp.Body).Decode(&apiErr); err != nil {
		// If we can't decode the error, create a generic one
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Detail:     fmt.Sprintf("request failed with status code %d", httpResp.StatusCode),
		}
	}

	apiErr.StatusCode = httpResp.StatusCode
	return &apiErr
}
