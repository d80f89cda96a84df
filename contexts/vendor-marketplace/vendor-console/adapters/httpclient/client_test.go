package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"

	"github.com/stretchr/testify/require"
)

func TestUpdateRecordSendsFieldMapping(t *testing.T) {
	closedAt := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotReqID  string
		gotBody   map[string]map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"vendor_id":"abc"}`))
	}))
	defer server.Close()

	client := New(server.URL, func() string { return "tok" }, nil)
	err := client.UpdateRecord(context.Background(), entities.CloseDealRequest("abc", 200, closedAt))
	require.NoError(t, err)

	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/api/vendors/v1/vendors/abc", gotPath)
	require.Equal(t, "Bearer tok", gotAuth)
	require.NotEmpty(t, gotReqID)
	require.Equal(t, true, gotBody["fields"]["deal_closed"])
	require.Equal(t, 200.0, gotBody["fields"]["deal_value"])
	require.Equal(t, "2026-03-14T18:30:00Z", gotBody["fields"]["deal_closed_at"])
}

func TestUpdateRecordMapsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"version_conflict","message":"stale"}`))
	}))
	defer server.Close()

	client := New(server.URL, nil, nil)
	err := client.UpdateRecord(context.Background(), entities.CloseDealRequest("abc", 200, time.Now()))

	require.ErrorIs(t, err, domainerrors.ErrRemote)
	var remote *domainerrors.RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusConflict, remote.Status)
	require.Equal(t, "version_conflict", remote.Code)
}

func TestUpdateRecordTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(url, nil, nil)
	err := client.UpdateRecord(context.Background(), entities.CloseDealRequest("abc", 200, time.Now()))
	require.ErrorIs(t, err, domainerrors.ErrRemote)
}

func TestHasRoleDecodesResult(t *testing.T) {
	var got hasRoleRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/authz/v1/rpc/has_role", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"result":true,"cache_hit":false}`))
	}))
	defer server.Close()

	client := New(server.URL, nil, nil)
	ok, err := client.HasRole(context.Background(), "u1", "admin")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, hasRoleRequest{SubjectID: "u1", RoleName: "admin"}, got)
}

func TestTranslateAndListVendors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/vendors/v1/translations/vendor_not_found", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key":"vendor_not_found","message":"Fornecedor não encontrado."}`))
	})
	mux.HandleFunc("/api/vendors/v1/vendors", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "buffet", r.URL.Query().Get("category"))
		_, _ = w.Write([]byte(`{"items":[{"vendor_id":"vendor-buffet-sol","name":"Buffet Sol","category":"buffet",` +
			`"rating_average":3.9,"stars":{"full":3,"half":1,"empty":1},"version":1}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := New(server.URL, nil, nil)
	text, err := client.Translate(context.Background(), "vendor_not_found")
	require.NoError(t, err)
	require.Equal(t, "Fornecedor não encontrado.", text)

	vendors, err := client.ListVendors(context.Background(), "buffet")
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	require.Equal(t, 3, vendors[0].FullStars)
	require.Equal(t, 1, vendors[0].HalfStars)
}
