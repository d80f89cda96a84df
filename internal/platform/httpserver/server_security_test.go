package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authorization "vendorhub/contexts/identity-access/authorization-service"
	dealservice "vendorhub/contexts/vendor-marketplace/deal-service"
	"vendorhub/internal/platform/auth"
	"vendorhub/internal/platform/metrics"

	"github.com/stretchr/testify/require"
)

const testSecret = "httpserver-test-secret"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	authzModule := authorization.NewInMemoryModule(nil)
	_, err := authzModule.Bootstrap.Execute(context.Background(), []string{"admin-1"})
	require.NoError(t, err)

	processMetrics, err := metrics.New()
	require.NoError(t, err)
	return New(dealservice.NewInMemoryModule(nil), authzModule, processMetrics, testSecret, nil, ":0")
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, subject, time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(server *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func closeDealRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/vendors/v1/vendors/vendor-doces-ana/deal", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCloseDealRequiresBearerToken(t *testing.T) {
	server := newTestServer(t)
	req := closeDealRequest(`{"deal_value":200}`)
	req.Header.Set("X-Request-Id", "req-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code, rr.Body.String())
}

func TestCloseDealRejectsForgedToken(t *testing.T) {
	server := newTestServer(t)
	forged, err := auth.IssueToken("another-secret", "admin-1", time.Hour, time.Now())
	require.NoError(t, err)

	req := closeDealRequest(`{"deal_value":200}`)
	req.Header.Set("Authorization", "Bearer "+forged)
	req.Header.Set("X-Request-Id", "req-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCloseDealRequiresRequestID(t *testing.T) {
	server := newTestServer(t)
	req := closeDealRequest(`{"deal_value":200}`)
	req.Header.Set("Authorization", bearer(t, "admin-1"))

	rr := serve(server, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "missing_request_id")
}

func TestCloseDealForbiddenForNonAdmin(t *testing.T) {
	server := newTestServer(t)
	req := closeDealRequest(`{"deal_value":200}`)
	req.Header.Set("Authorization", bearer(t, "user-7"))
	req.Header.Set("X-Request-Id", "req-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCloseDealAsAdmin(t *testing.T) {
	server := newTestServer(t)
	req := closeDealRequest(`{"deal_value":"150,50"}`)
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	req.Header.Set("X-Request-Id", "req-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Vendor struct {
			DealClosed bool     `json:"deal_closed"`
			DealValue  *float64 `json:"deal_value"`
		} `json:"vendor"`
		FormattedValue string `json:"formatted_value"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Vendor.DealClosed)
	require.NotNil(t, body.Vendor.DealValue)
	require.InDelta(t, 150.5, *body.Vendor.DealValue, 1e-9)
}

func TestCloseDealInvalidValueIs422(t *testing.T) {
	server := newTestServer(t)
	req := closeDealRequest(`{"deal_value":"abc"}`)
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	req.Header.Set("X-Request-Id", "req-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.Contains(t, rr.Body.String(), "invalid_deal_value")
}

func TestPatchVendorUnknownIs404(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPatch, "/api/vendors/v1/vendors/missing", strings.NewReader(`{"fields":{"deal_closed":true,"deal_value":10}}`))
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	req.Header.Set("X-Request-Id", "req-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHasRoleForSelf(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/authz/v1/rpc/has_role", bytes.NewReader([]byte(`{"subject_id":"admin-1","role_name":"admin"}`)))
	req.Header.Set("Authorization", bearer(t, "admin-1"))

	rr := serve(server, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), `"result":true`)
}

func TestHasRoleForOtherSubjectNeedsAdmin(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/authz/v1/rpc/has_role", bytes.NewReader([]byte(`{"subject_id":"admin-1","role_name":"admin"}`)))
	req.Header.Set("Authorization", bearer(t, "user-7"))

	rr := serve(server, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuthzGrantRequiresRequestID(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/authz/v1/users/user-1/roles/grant", bytes.NewReader([]byte(`{"role_id":"admin"}`)))
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	req.Header.Set("Idempotency-Key", "grant-1")

	rr := serve(server, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublicRoutes(t *testing.T) {
	server := newTestServer(t)

	rr := serve(server, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(server, httptest.NewRequest(http.MethodGet, "/api/vendors/v1/catalog", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "categories")

	rr = serve(server, httptest.NewRequest(http.MethodGet, "/api/vendors/v1/translations/vendor_not_found", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Fornecedor não encontrado.")

	rr = serve(server, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestSwaggerServesRegisteredDocument(t *testing.T) {
	server := newTestServer(t)

	rr := serve(server, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "vendorhub API")
	require.Contains(t, rr.Body.String(), "/api/vendors/v1/vendors/{vendor_id}/deal")
}
