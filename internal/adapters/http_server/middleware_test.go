package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserID(t *testing.T) {
	var got string
	h := UserID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = userFrom(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(UserHeader, "  user-7 ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "user-7" {
		t.Fatalf("expected trimmed user id, got %q", got)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if got != "" {
		t.Fatalf("expected anonymous caller, got %q", got)
	}
}

func TestRemoteIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	if ip := remoteIP(req); ip != "10.0.0.9" {
		t.Fatalf("remote addr: %q", ip)
	}
	req.Header.Set("X-Real-IP", "10.1.1.1")
	if ip := remoteIP(req); ip != "10.1.1.1" {
		t.Fatalf("x-real-ip: %q", ip)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.1.1.1")
	if ip := remoteIP(req); ip != "203.0.113.5" {
		t.Fatalf("x-forwarded-for: %q", ip)
	}
}

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &srw{ResponseWriter: rr}
	if w.Status() != http.StatusOK {
		t.Fatalf("default status: %d", w.Status())
	}
	w.WriteHeader(http.StatusTeapot)
	w.WriteHeader(http.StatusOK)
	if w.Status() != http.StatusTeapot {
		t.Fatalf("first status must stick, got %d", w.Status())
	}
}
