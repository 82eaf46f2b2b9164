// Package testutil holds helpers shared by the HTTP and storage tests.
package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"booksapi/internal/platform/database"
)

// OpenSQLite opens a migrated SQLite database in a temp dir that is removed with the test.
func OpenSQLite(t testing.TB) *database.Conn {
	t.Helper()
	ctx := context.Background()
	conn, err := database.Open(ctx, database.DriverSQLite, filepath.Join(t.TempDir(), "books.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(conn.Close)
	if _, err := conn.Migrate(ctx); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

// NewRequest creates a request for testing. A non-empty body is sent as JSON.
func NewRequest(method, target, body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(method, target, nil)
	}
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// Serve runs one request through h and records the response.
func Serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, NewRequest(method, target, body))
	return w
}

// DecodeJSON unmarshals the recorded body into T, failing the test on error.
func DecodeJSON[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

// AssertStatus checks the recorded status code and reports the body on mismatch.
func AssertStatus(t testing.TB, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Errorf("got status code %d, want %d (body %q)", w.Code, want, w.Body.String())
	}
}
