package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vairanya/internal/session"
)

type staticClassifier struct {
	result session.Classification
	err    error
}

func (c *staticClassifier) Classify(context.Context, string) (session.Classification, error) {
	return c.result, c.err
}

func newGateTestApp(c session.Classifier) *application {
	resolver := session.NewResolver(session.NewMemoryStore(0), nil, c, zap.NewNop().Sugar())
	return &application{
		logger: zap.NewNop().Sugar(),
		gate:   session.NewGate(resolver, session.NewPolicy(), session.NewArbiterSet(session.DefaultLockTTL), 0),
	}
}

func gateRequest(t *testing.T, app *application, path, subjectID string) *httptest.ResponseRecorder {
	t.Helper()

	var nextRecord *session.Record
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextRecord = getRecordFromContext(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: "shell_id", Value: "shell-1"})
	if subjectID != "" {
		req = req.WithContext(context.WithValue(req.Context(), subjectCtx, subjectID))
	}

	rr := httptest.NewRecorder()
	app.SessionGateMiddleware(next).ServeHTTP(rr, req)

	if rr.Code == http.StatusOK {
		require.NotNil(t, nextRecord, "allowed staff requests must carry the session record")
	}
	return rr
}

func TestGateMiddlewareAnonymousOnAdmin(t *testing.T) {
	app := newGateTestApp(&staticClassifier{err: session.ErrUnauthorized})

	rr := gateRequest(t, app, "/v1/admin/orders", "")
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var body struct {
		Action   string `json:"action"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "redirect", body.Action)
	assert.Equal(t, "/login?callbackUrl=%2Fadmin%2Forders", body.Redirect)

	// The same shell retrying within the lock TTL renders nothing.
	rr = gateRequest(t, app, "/v1/admin/orders", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())
}

func TestGateMiddlewareWrongBackOfficeRedirectsHome(t *testing.T) {
	app := newGateTestApp(&staticClassifier{})
	app.gate.Resolver().Establish(context.Background(), "7", session.RoleWorker, "Bina")

	rr := gateRequest(t, app, "/v1/admin/products", "7")
	require.Equal(t, http.StatusForbidden, rr.Code)

	var body struct {
		Action   string `json:"action"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "redirect", body.Action)
	assert.Equal(t, "/worker/dashboard", body.Redirect)
}

func TestGateMiddlewareCustomerIsDenied(t *testing.T) {
	app := newGateTestApp(&staticClassifier{err: session.ErrNotStaff})

	rr := gateRequest(t, app, "/v1/worker/tasks", "9")
	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.NotContains(t, rr.Body.String(), "redirect", "denied is terminal, not a bounce")
}

func TestGateMiddlewareStaffPassesThrough(t *testing.T) {
	app := newGateTestApp(&staticClassifier{})
	app.gate.Resolver().Establish(context.Background(), "3", session.RoleAdmin, "Asha")

	rr := gateRequest(t, app, "/v1/admin/products", "3")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGateRouteStripsAPIPrefix(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/orders", nil)
	assert.Equal(t, "/admin/orders", gateRoute(req))

	req = httptest.NewRequest(http.MethodGet, "/v1", nil)
	assert.Equal(t, "/", gateRoute(req))
}

func TestVisitorKeyFallbackOrder(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin", nil)
	req.AddCookie(&http.Cookie{Name: "shell_id", Value: "shell-9"})
	assert.Equal(t, "shell-9", visitorKey(req, "42"), "the shell cookie outranks the subject")

	req = httptest.NewRequest(http.MethodGet, "/v1/admin", nil)
	assert.Equal(t, "42", visitorKey(req, "42"))
	assert.Equal(t, req.RemoteAddr, visitorKey(req, ""))
}
