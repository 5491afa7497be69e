package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"ramesh-admin/api"
	"ramesh-admin/models"
	"ramesh-admin/notify"
	"ramesh-admin/session"

	"github.com/google/uuid"
)

type routeRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (r *routeRecorder) record(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *routeRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

// A 401 on any resource operation must run the whole teardown chain: the
// shared store loses its tokens and user, the session controller flips to
// unauthenticated, and the navigator lands on the login route. The resource
// controller itself stays silent.
func TestExpiredTokenTearsDownSessionEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"Invalid or expired token"}`))
	}))
	t.Cleanup(srv.Close)

	st := newTestStore(t)
	st.SetTokens(signedToken(t), "stale-refresh")
	st.SaveUser(&models.Admin{ID: uuid.New(), Email: "owner@ramesh.com", Role: models.RoleAdmin})

	client := api.NewClient(srv.URL, st)
	nav := &routeRecorder{}
	sessNotify := notify.NewCapture()
	sess := session.New(client, st, sessNotify, nav.record)
	if !sess.CheckAuth() {
		t.Fatal("session should restore from the store")
	}

	capture := notify.NewCapture()
	ctrl := NewCategoryController(client, capture, sess)

	if ctrl.List(context.Background(), nil) {
		t.Fatal("list should fail on the expired token")
	}

	if st.AccessToken() != "" || st.RefreshToken() != "" || st.LoadUser() != nil {
		t.Error("store should be wiped by the teardown")
	}
	if sess.IsAuthenticated() {
		t.Error("session should be unauthenticated after teardown")
	}
	routes := nav.all()
	if len(routes) == 0 || routes[0] != session.LoginRoute {
		t.Errorf("teardown should navigate to %s, got %v", session.LoginRoute, routes)
	}
	if len(sessNotify.Errors()) != 1 {
		t.Errorf("expiry notifies exactly once, got %d", len(sessNotify.Errors()))
	}
	// The resource controller stays out of it: no local error, no toast.
	if ctrl.Err() != "" {
		t.Errorf("controller must not record a local error, got %q", ctrl.Err())
	}
	if len(capture.Errors()) != 0 {
		t.Error("controller must not notify on session expiry")
	}
}
