package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/knowdesk/pagekit/internal/errors"
	"github.com/knowdesk/pagekit/pkg/routes"
)

// User-facing messages.
const (
	MsgProjectDeleted       = "Project deleted."
	MsgProjectDeleteFailed  = "Failed to delete the project."
	MsgKnowledgeDeleted     = "Knowledge base deleted."
	MsgKnowledgeDeleteFail  = "Failed to delete the knowledge base."
	MsgSearchFailed         = "Search failed."
	MsgLogoutFailed         = "Failed to log out."
	MsgNetworkError         = "A network error occurred."
	MsgConfirmProjectDelete = "Delete this project?"
	MsgConfirmKnowledgeDel  = "Delete this knowledge base?"
)

// maxBody caps response bodies read by the client.
const maxBody = 1 << 20

// Reporter shows outcomes to the user.
type Reporter interface {
	ShowError(message string)
	ShowSuccess(message string)
}

// ConfirmFunc asks the user to confirm message.
type ConfirmFunc func(ctx context.Context, message string) bool

// User is the authenticated user as returned by the auth endpoint.
type User struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name,omitempty"`
}

// SearchResult is one knowledge search hit. Its shape is owned by the
// server.
type SearchResult map[string]any

// Outcome describes a completed destructive call.
type Outcome struct {
	// Cancelled is set when the user declined the confirmation.
	Cancelled bool

	// Message is the server's message on success.
	Message string

	// Redirect is where the user should go next; empty means reload.
	Redirect string
}

// Client calls the JSON API.
type Client struct {
	base    string
	http    *http.Client
	routes  *routes.Table
	report  Reporter
	confirm ConfirmFunc
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRoutes sets the route table URLs are built from.
func WithRoutes(t *routes.Table) Option {
	return func(c *Client) {
		c.routes = t
	}
}

// WithReporter sets where outcomes are shown.
func WithReporter(r Reporter) Option {
	return func(c *Client) {
		c.report = r
	}
}

// WithConfirm sets the confirmation hook for destructive calls.
func WithConfirm(fn ConfirmFunc) Option {
	return func(c *Client) {
		c.confirm = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for the API served at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		routes:  routes.Default(),
		report:  discard{},
		confirm: func(context.Context, string) bool { return true },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DeleteProject deletes project id after confirmation.
func (c *Client) DeleteProject(ctx context.Context, id any) (Outcome, error) {
	return c.destroy(ctx, "projects.destroy", id, deletion{
		confirm:  MsgConfirmProjectDelete,
		success:  MsgProjectDeleted,
		failure:  MsgProjectDeleteFailed,
		redirect: c.routes.URL("project.index", nil),
	})
}

// DeleteKnowledge deletes knowledge base id after confirmation. The caller
// should reload the current page on success.
func (c *Client) DeleteKnowledge(ctx context.Context, id any) (Outcome, error) {
	return c.destroy(ctx, "knowledge.destroy", id, deletion{
		confirm: MsgConfirmKnowledgeDel,
		success: MsgKnowledgeDeleted,
		failure: MsgKnowledgeDeleteFail,
	})
}

// SearchKnowledge searches knowledge base id. Failures yield an empty
// result; only request failures are reported, an error status is not.
func (c *Client) SearchKnowledge(ctx context.Context, id any, query string) []SearchResult {
	var body struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, c.routes.URL("knowledge.query", id), map[string]string{"query": query}, &body); err != nil {
		var se *StatusError
		if stderrors.As(err, &se) {
			c.logger.Debug("knowledge search rejected", "id", id, "status", se.StatusCode)
			return []SearchResult{}
		}
		c.logger.Warn("knowledge search failed", "id", id, "error", err)
		c.report.ShowError(MsgSearchFailed)
		return []SearchResult{}
	}
	if body.Results == nil {
		return []SearchResult{}
	}
	return body.Results
}

// Me returns the authenticated user, or nil when there is none.
func (c *Client) Me(ctx context.Context) *User {
	var body struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, c.routes.URL("api.auth.me", nil), nil, &body); err != nil {
		c.logger.Debug("auth check failed", "error", err)
		return nil
	}
	return body.User
}

// Logout ends the session and returns the login URL to navigate to.
func (c *Client) Logout(ctx context.Context) (string, error) {
	if err := c.do(ctx, http.MethodPost, c.routes.URL("api.auth.logout", nil), nil, nil); err != nil {
		c.report.ShowError(MsgLogoutFailed)
		return "", err
	}
	return c.routes.URL("auth.login", nil), nil
}

type deletion struct {
	confirm  string
	success  string
	failure  string
	redirect string
}

func (c *Client) destroy(ctx context.Context, route string, id any, d deletion) (Outcome, error) {
	if !c.confirm(ctx, d.confirm) {
		return Outcome{Cancelled: true}, nil
	}

	var body struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodDelete, c.routes.URL(route, id), nil, &body)
	if err != nil {
		c.logger.Warn("delete failed", "route", route, "id", id, "error", err)
		c.report.ShowError(failureMessage(err, d.failure))
		return Outcome{}, err
	}

	c.report.ShowSuccess(d.success)
	return Outcome{Message: body.Message, Redirect: d.redirect}, nil
}

// failureMessage picks the message shown for err: the server's own error
// text for status failures, a network message for transport failures.
func failureMessage(err error, fallback string) string {
	var se *StatusError
	if stderrors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return fallback
	}
	return MsgNetworkError
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.New(errors.CodeAPIRequest).Wrap(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.New(errors.CodeAPIRequest).Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.New(errors.CodeAPIRequest).WithDetail("%s %s", method, path).Wrap(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.New(errors.CodeAPIRequest).Wrap(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.New(errors.CodeAPIRequest).WithDetail("decode %s %s", method, path).Wrap(err)
	}
	return nil
}

type discard struct{}

func (discard) ShowError(string)   {}
func (discard) ShowSuccess(string) {}
