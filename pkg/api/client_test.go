package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/knowdesk/pagekit/internal/errors"
	"github.com/knowdesk/pagekit/pkg/alert"
)

type call struct {
	method string
	path   string
	body   string
}

func newServer(t *testing.T, status int, response string, calls *[]call) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*calls = append(*calls, call{r.Method, r.URL.Path, string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient(base string, stack *alert.Stack, confirm bool) *Client {
	return New(base,
		WithReporter(stack),
		WithLogger(quietLogger()),
		WithConfirm(func(context.Context, string) bool { return confirm }),
	)
}

func TestDeleteProject(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		confirm  bool
		wantErr  bool
		wantMsg  string
		wantCall bool
	}{
		{"ok", http.StatusOK, `{"message":"deleted"}`, true, false, MsgProjectDeleted, true},
		{"server error text", http.StatusNotFound, `{"error":"no such project"}`, true, true, "no such project", true},
		{"server error without text", http.StatusInternalServerError, `{}`, true, true, MsgProjectDeleteFailed, true},
		{"cancelled", http.StatusOK, `{}`, false, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			srv := newServer(t, tt.status, tt.response, &calls)
			stack := alert.NewStack()
			c := newClient(srv.URL, stack, tt.confirm)

			out, err := c.DeleteProject(context.Background(), 12)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := len(calls) > 0; got != tt.wantCall {
				t.Fatalf("request sent = %v, want %v", got, tt.wantCall)
			}
			if tt.wantCall {
				if calls[0].method != http.MethodDelete || calls[0].path != "/api/v1/projects/12" {
					t.Errorf("call = %+v", calls[0])
				}
			}
			if !tt.confirm && !out.Cancelled {
				t.Error("expected Cancelled outcome")
			}
			if !tt.wantErr && tt.confirm && out.Redirect != "/projects" {
				t.Errorf("Redirect = %q, want /projects", out.Redirect)
			}

			pending := stack.Pending()
			if tt.wantMsg == "" {
				if len(pending) != 0 {
					t.Errorf("unexpected alerts %v", pending)
				}
				return
			}
			if len(pending) != 1 || pending[0].Message != tt.wantMsg {
				t.Errorf("alerts = %v, want %q", pending, tt.wantMsg)
			}
		})
	}
}

func TestDeleteKnowledgeNetworkError(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{}`, &calls)
	srv.Close()

	stack := alert.NewStack()
	c := newClient(srv.URL, stack, true)
	_, err := c.DeleteKnowledge(context.Background(), 3)
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errors.CodeOf(err); code != errors.CodeAPIRequest {
		t.Errorf("code = %q, want %q", code, errors.CodeAPIRequest)
	}
	pending := stack.Pending()
	if len(pending) != 1 || pending[0].Message != MsgNetworkError || pending[0].Level != alert.TypeError {
		t.Errorf("alerts = %v", pending)
	}
}

func TestDeleteKnowledgeStatusCode(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusForbidden, `{"error":"forbidden"}`, &calls)
	c := newClient(srv.URL, alert.NewStack(), true)

	_, err := c.DeleteKnowledge(context.Background(), 3)
	if code := errors.CodeOf(err); code != errors.CodeAPIStatus {
		t.Errorf("code = %q, want %q", code, errors.CodeAPIStatus)
	}
	if calls[0].path != "/api/v1/knowledge/3" {
		t.Errorf("path = %q", calls[0].path)
	}
}

func TestSearchKnowledge(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{"results":[{"title":"Go"},{"title":"HCL"}]}`, &calls)
	stack := alert.NewStack()
	c := newClient(srv.URL, stack, true)

	results := c.SearchKnowledge(context.Background(), 5, "routing")
	if len(results) != 2 || results[1]["title"] != "HCL" {
		t.Fatalf("results = %v", results)
	}
	if calls[0].method != http.MethodPost || calls[0].path != "/api/v1/knowledge/5/search" {
		t.Errorf("call = %+v", calls[0])
	}
	var sent map[string]string
	if err := json.Unmarshal([]byte(calls[0].body), &sent); err != nil || sent["query"] != "routing" {
		t.Errorf("body = %q", calls[0].body)
	}
	if len(stack.Pending()) != 0 {
		t.Error("search success should not alert")
	}
}

func TestSearchKnowledgeFailure(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		response  string
		down      bool
		wantAlert bool
	}{
		{"error status stays quiet", http.StatusBadRequest, `{"error":"query required"}`, false, false},
		{"server error stays quiet", http.StatusInternalServerError, `{}`, false, false},
		{"malformed body", http.StatusOK, `{"results":`, false, true},
		{"server unreachable", http.StatusOK, `{}`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			srv := newServer(t, tt.status, tt.response, &calls)
			if tt.down {
				srv.Close()
			}
			stack := alert.NewStack()
			c := newClient(srv.URL, stack, true)

			results := c.SearchKnowledge(context.Background(), 5, "")
			if results == nil || len(results) != 0 {
				t.Fatalf("results = %#v, want empty", results)
			}
			pending := stack.Pending()
			if !tt.wantAlert {
				if len(pending) != 0 {
					t.Errorf("alerts = %v, want none", pending)
				}
				return
			}
			if len(pending) != 1 || pending[0].Message != MsgSearchFailed {
				t.Errorf("alerts = %v", pending)
			}
		})
	}
}

func TestMe(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{"user":{"id":1,"username":"mika","email":"m@example.com"}}`, &calls)
	c := newClient(srv.URL, alert.NewStack(), true)

	u := c.Me(context.Background())
	if u == nil || u.Username != "mika" || u.ID != 1 {
		t.Fatalf("user = %+v", u)
	}
	if calls[0].path != "/api/v1/auth/me" {
		t.Errorf("path = %q", calls[0].path)
	}

	var denied []call
	srv = newServer(t, http.StatusUnauthorized, `{"error":"login required"}`, &denied)
	if u := newClient(srv.URL, alert.NewStack(), true).Me(context.Background()); u != nil {
		t.Errorf("user = %+v, want nil", u)
	}
}

func TestLogout(t *testing.T) {
	var calls []call
	srv := newServer(t, http.StatusOK, `{"message":"bye"}`, &calls)
	c := newClient(srv.URL, alert.NewStack(), true)

	next, err := c.Logout(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if next != "/auth/login" {
		t.Errorf("next = %q", next)
	}
	if calls[0].method != http.MethodPost || calls[0].path != "/api/v1/auth/logout" {
		t.Errorf("call = %+v", calls[0])
	}

	var failed []call
	srv = newServer(t, http.StatusInternalServerError, `{"error":"boom"}`, &failed)
	stack := alert.NewStack()
	if _, err := newClient(srv.URL, stack, true).Logout(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if p := stack.Pending(); len(p) != 1 || p[0].Message != MsgLogoutFailed {
		t.Errorf("alerts = %v", p)
	}
}
