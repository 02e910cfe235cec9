package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vistapress/internal/session"
)

// withSession injects session data into a request context the way
// LoadSession would.
func withSession(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), SessionKey, data))
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAuthRejectsGuests(t *testing.T) {
	handler, called := okHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/saved", nil)

	RequireAuth(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if *called {
		t.Error("downstream handler must not run for guests")
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	handler, called := okHandler()
	rec := httptest.NewRecorder()
	req := withSession(httptest.NewRequest(http.MethodGet, "/me/saved", nil),
		&session.Data{Email: "reader@example.com", Role: "reader"})

	RequireAuth(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if !*called {
		t.Error("downstream handler should run")
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		data *session.Data
		want int
	}{
		{"guest", nil, http.StatusForbidden},
		{"reader", &session.Data{Role: "reader"}, http.StatusForbidden},
		{"editor", &session.Data{Role: "editor"}, http.StatusForbidden},
		{"admin", &session.Data{Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := okHandler()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
			if tt.data != nil {
				req = withSession(req, tt.data)
			}

			RequireAdmin(handler).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name string
		data *session.Data
		want int
	}{
		{"guest", nil, http.StatusForbidden},
		{"reader", &session.Data{Role: "reader"}, http.StatusForbidden},
		{"editor", &session.Data{Role: "editor"}, http.StatusOK},
		{"admin", &session.Data{Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := okHandler()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/posts", nil)
			if tt.data != nil {
				req = withSession(req, tt.data)
			}

			RequireStaff(handler).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSessionIDFromCtx(t *testing.T) {
	if got := SessionIDFromCtx(context.Background()); got != "" {
		t.Errorf("empty context: got %q, want empty", got)
	}

	ctx := context.WithValue(context.Background(), SessionIDKey, "abc123")
	if got := SessionIDFromCtx(ctx); got != "abc123" {
		t.Errorf("got %q, want abc123", got)
	}
}
