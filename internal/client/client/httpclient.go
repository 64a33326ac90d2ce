package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/common"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithAPIKey sends key in the x-api-key header of every request.
func WithAPIKey(key string) Option {
	return func(c *HTTPClient) { c.apiKey = key }
}

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a Client talking JSON to the API rooted at baseURL,
// e.g. "https://reqres.in/api".
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api")
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	ID    wireID `json:"id"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/login", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: %w: empty token", ErrUnexpectedResponse)
	}
	return &AuthResult{Token: resp.Token}, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/register", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("register: %w: empty token", ErrUnexpectedResponse)
	}
	return &AuthResult{Token: resp.Token, ID: resp.ID.Value, HasID: resp.ID.Valid}, nil
}

type userDTO struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

type usersResponse struct {
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Data       []userDTO `json:"data"`
}

func (c *HTTPClient) ListUsers(ctx context.Context, page, perPage int) (*models.UsersPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}

	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	records := make([]models.UserRecord, 0, len(resp.Data))
	for _, u := range resp.Data {
		records = append(records, models.UserRecord{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			AvatarURL: u.Avatar,
		})
	}

	return &models.UsersPage{
		Records:    records,
		Page:       resp.Page,
		PerPage:    resp.PerPage,
		Total:      resp.Total,
		TotalPages: resp.TotalPages,
	}, nil
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Job      string `json:"job,omitempty"`
}

type createUserResponse struct {
	ID        wireID    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Job       string    `json:"job"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *HTTPClient) CreateUser(ctx context.Context, user models.NewUser) (*CreatedUser, error) {
	req := createUserRequest{Name: user.Name, Email: user.Email, Password: user.Password, Job: user.Job}

	var resp createUserResponse
	if err := c.do(ctx, http.MethodPost, "/users", req, &resp); err != nil {
		return nil, err
	}

	return &CreatedUser{
		ID:        resp.ID.Value,
		HasID:     resp.ID.Valid,
		Name:      resp.Name,
		Email:     resp.Email,
		Job:       resp.Job,
		CreatedAt: resp.CreatedAt,
	}, nil
}

type updateUserRequest struct {
	Name string `json:"name,omitempty"`
	Job  string `json:"job,omitempty"`
}

type updateUserResponse struct {
	Name      string    `json:"name"`
	Job       string    `json:"job"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id int, patch models.UserPatch) (*UpdatedUser, error) {
	var resp updateUserResponse
	path := "/users/" + strconv.Itoa(id)
	if err := c.do(ctx, http.MethodPut, path, updateUserRequest{Name: patch.Name, Job: patch.Job}, &resp); err != nil {
		return nil, err
	}
	return &UpdatedUser{Name: resp.Name, Job: resp.Job, UpdatedAt: resp.UpdatedAt}, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.Itoa(id), nil, nil)
}

// do sends one JSON request and decodes a 2xx body into out (when out is
// non-nil and the body is not empty).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %w", method, path, ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUnexpectedResponse, err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newRequestError(resp *http.Response) *RequestError {
	re := &RequestError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return re
	}

	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return re
	}
	re.Message = eb.Error
	if re.Message == "" {
		re.Message = eb.Message
	}
	return re
}

// wireID accepts ids sent either as JSON numbers or as numeric strings.
// Anything else leaves Valid false.
type wireID struct {
	Value int
	Valid bool
}

func (w *wireID) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		if v == float64(int(v)) {
			w.Value, w.Valid = int(v), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			w.Value, w.Valid = n, true
		}
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
