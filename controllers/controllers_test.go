package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/session"
	"ramesh-admin/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// countingHandler wraps a handler and counts how many requests reached the
// transport, so permission pre-check tests can assert zero network calls.
type countingHandler struct {
	hits    atomic.Int64
	handler http.HandlerFunc
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.hits.Add(1)
	if h.handler != nil {
		h.handler(w, r)
		return
	}
	w.Write([]byte(`{"status":"success"}`))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func signedToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": uuid.NewString(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// testSession builds an authenticated session controller with the given role,
// backed by its own store so it never interferes with the test server.
func testSession(t *testing.T, client *api.Client, role string) *session.Controller {
	return testSessionAs(t, client, role, uuid.New())
}

func testSessionAs(t *testing.T, client *api.Client, role string, id uuid.UUID) *session.Controller {
	t.Helper()
	st := newTestStore(t)
	st.SetTokens(signedToken(t), "refresh")
	st.SaveUser(&models.Admin{ID: id, Email: uuid.NewString() + "@ramesh.com", Role: role})
	sess := session.New(client, st, notify.NewCapture(), nil)
	if !sess.CheckAuth() {
		t.Fatal("test session failed to authenticate")
	}
	return sess
}

func decodeInto(r *http.Request, dst interface{}) {
	json.NewDecoder(r.Body).Decode(dst)
}

func newClientServer(t *testing.T, handler http.HandlerFunc) (*api.Client, *countingHandler) {
	t.Helper()
	counting := &countingHandler{handler: handler}
	srv := httptest.NewServer(counting)
	t.Cleanup(srv.Close)
	st := newTestStore(t)
	st.SetTokens(signedToken(t), "refresh")
	return api.NewClient(srv.URL, st), counting
}

func jsonResponse(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}
