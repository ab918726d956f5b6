package client

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

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/common"
	"github.com/dmitrijs2005/docudefense/internal/logging"
	"github.com/dmitrijs2005/docudefense/internal/netx"
	"github.com/google/uuid"
)

// uploadField is the multipart field the backend reads the document from.
const uploadField = "contract"

// maxErrorBody caps how much of a failed response is kept in APIError.
const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL    string
	searchPath string
	http       *http.Client
	tokens     TokenSource
	logger     logging.Logger
	requestID  func() string
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithSearchPath overrides the user search endpoint path.
func WithSearchPath(p string) Option {
	return func(c *HTTPClient) { c.searchPath = "/" + strings.Trim(p, "/") }
}

// WithLogger attaches a logger for request-level debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewDocuDefenseClient builds a REST client for the backend at baseURL.
// tokens may be nil for a client that never authenticates.
func NewDocuDefenseClient(baseURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		searchPath: "/users/search",
		http:       &http.Client{Timeout: 10 * time.Second},
		tokens:     tokens,
		logger:     logging.Discard(),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, page, limit int) ([]models.User, error) {
	var users []models.User
	err := c.doJSON(ctx, "list users", http.MethodGet, "/users", pageQuery(page, limit), nil, &users)
	if err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

func (c *HTTPClient) SearchUsers(ctx context.Context, term string, page, limit int) ([]models.User, error) {
	q := pageQuery(page, limit)
	q.Set("term", term)

	var users []models.User
	if err := c.doJSON(ctx, "search users", http.MethodGet, c.searchPath, q, nil, &users); err != nil {
		return nil, err
	}
	return nonNil(users), nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, input models.UserInput) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "create user", http.MethodPost, "/users", nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, input models.UserInput) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "update user", http.MethodPut, "/users/"+netx.EscapePathSegment(id), nil, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	var conf models.Confirmation
	return c.doJSON(ctx, "delete user", http.MethodDelete, "/users/"+netx.EscapePathSegment(id), nil, nil, &conf)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var res models.LoginResult
	creds := models.Credentials{Email: email, Password: password}
	if err := c.doJSON(ctx, "login", http.MethodPost, "/login", nil, creds, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("login: %w: empty token in response", common.ErrInvalidToken)
	}
	return &res, nil
}

func (c *HTTPClient) FetchUserIDByEmail(ctx context.Context, email string) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	q := url.Values{"email": {email}}
	if err := c.doJSON(ctx, "fetch user id", http.MethodGet, "/users/email", q, nil, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", fmt.Errorf("fetch user id: %w", common.ErrorNotFound)
	}
	return res.ID, nil
}

func (c *HTTPClient) UploadFile(ctx context.Context, userID, filename string, content io.Reader) (*models.UploadResult, error) {
	const op = "upload file"

	body, contentType, err := netx.MultipartFile(uploadField, filename, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, userPath(userID, "upload"), nil, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)

	var res models.UploadResult
	if err := c.send(req, op, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListUserFiles(ctx context.Context, userID string) ([]models.FileRecord, error) {
	var files []models.FileRecord
	if err := c.doJSON(ctx, "list files", http.MethodGet, userPath(userID, "files"), nil, nil, &files); err != nil {
		return nil, err
	}
	if files == nil {
		files = []models.FileRecord{}
	}
	return files, nil
}

// DownloadFile opens the document stream. The caller must close Body.
func (c *HTTPClient) DownloadFile(ctx context.Context, userID, filename string) (*models.Download, error) {
	const op = "download file"

	req, err := c.newRequest(ctx, http.MethodGet, filePath(userID, filename, "download"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.do(req, op)
	if err != nil {
		return nil, err
	}

	name := netx.AttachmentFilename(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filename
	}
	return &models.Download{
		Filename:    name,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, userID, filename string) error {
	var conf models.Confirmation
	return c.doJSON(ctx, "delete file", http.MethodDelete, filePath(userID, filename, "delete"), nil, nil, &conf)
}

// Ping reports whether the backend answers HTTP at all; any status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w: %w", ErrUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, op, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, c.requestID())

	if c.tokens != nil {
		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if h := common.BearerHeader(token); h != "" {
			req.Header.Set(common.AuthorizationHeaderName, h)
		}
	}
	return req, nil
}

// send executes req and decodes a JSON body into out (if non-nil).
func (c *HTTPClient) send(req *http.Request, op string, out any) error {
	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// do executes req. Transport failures wrap ErrUnavailable; non-2xx statuses
// become *APIError and the body is closed. On success the caller owns the body.
func (c *HTTPClient) do(req *http.Request, op string) (*http.Response, error) {
	ctx := req.Context()
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	c.logger.Debug(ctx, "backend call",
		"op", op,
		"method", req.Method,
		"path", req.URL.EscapedPath(),
		"status", resp.StatusCode,
		"request_id", req.Header.Get(common.RequestIDHeaderName),
		"elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	return resp, nil
}

// errorMessage extracts {"error": ...} or {"message": ...} bodies and falls
// back to the raw text.
func errorMessage(raw []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func userPath(userID, tail string) string {
	return "/users/" + netx.EscapePathSegment(userID) + "/" + tail
}

func filePath(userID, filename, action string) string {
	return userPath(userID, "files") + "/" + netx.EscapePathSegment(filename) + "/" + action
}

func nonNil(users []models.User) []models.User {
	if users == nil {
		return []models.User{}
	}
	return users
}
