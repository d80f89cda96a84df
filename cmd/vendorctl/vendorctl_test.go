package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	authorization "vendorhub/contexts/identity-access/authorization-service"
	dealservice "vendorhub/contexts/vendor-marketplace/deal-service"
	"vendorhub/internal/platform/auth"
	"vendorhub/internal/platform/httpserver"

	"github.com/stretchr/testify/require"
)

const testSecret = "vendorctl-test-secret"

func startAPI(t *testing.T) string {
	t.Helper()
	authzModule := authorization.NewInMemoryModule(nil)
	_, err := authzModule.Bootstrap.Execute(context.Background(), []string{"admin-1"})
	require.NoError(t, err)

	server := httpserver.New(dealservice.NewInMemoryModule(nil), authzModule, nil, testSecret, nil, ":0")
	api := httptest.NewServer(server.Handler())
	t.Cleanup(api.Close)
	return api.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("VENDORHUB_TOKEN", "")

	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func tokenFor(t *testing.T, subject string) string {
	t.Helper()
	token, err := auth.IssueToken(testSecret, subject, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

func TestTokenIssueSignsSubject(t *testing.T) {
	out, err := run(t, "token", "issue", "--secret", testSecret, "--subject", "admin-1")
	require.NoError(t, err)

	subject, err := auth.ParseSubject([]byte(testSecret), strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "admin-1", subject)
}

func TestTokenIssueRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "token", "issue", "--subject", "admin-1")
	require.Error(t, err)
}

func TestVendorsListRequiresToken(t *testing.T) {
	_, err := run(t, "vendors", "list", "--api", "http://127.0.0.1:1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not signed in")
}

func TestVendorsListPrintsCards(t *testing.T) {
	apiURL := startAPI(t)

	out, err := run(t, "vendors", "list", "--api", apiURL, "--secret", testSecret,
		"--token", tokenFor(t, "user-2"), "--category", "decoracao")
	require.NoError(t, err)
	require.Contains(t, out, "vendor-flor-festa")
	require.NotContains(t, out, "vendor-doces-ana")
}

func TestDealCloseAsAdminRefreshesVendorRow(t *testing.T) {
	apiURL := startAPI(t)

	out, err := run(t, "deal", "close", "vendor-doces-ana", "150,50", "--api", apiURL,
		"--secret", testSecret, "--token", tokenFor(t, "admin-1"))
	require.NoError(t, err)
	require.Contains(t, out, "vendor-doces-ana")
	require.Contains(t, out, "fechado R$ 150.50")
}

func TestDealCloseAsNonAdminFails(t *testing.T) {
	apiURL := startAPI(t)

	out, err := run(t, "deal", "close", "vendor-doces-ana", "200", "--api", apiURL,
		"--secret", testSecret, "--token", tokenFor(t, "user-2"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errReported))
	require.NotContains(t, out, "fechado R$")
}

func TestAdminStatus(t *testing.T) {
	apiURL := startAPI(t)

	out, err := run(t, "admin", "status", "--api", apiURL, "--secret", testSecret,
		"--token", tokenFor(t, "admin-1"))
	require.NoError(t, err)
	require.Equal(t, "admin: granted (admin-1)\n", out)

	out, err = run(t, "admin", "status", "--api", apiURL, "--secret", testSecret,
		"--token", tokenFor(t, "user-2"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "admin: denied"), out)
}

func TestAdminStatusWithoutSessionIsDenied(t *testing.T) {
	out, err := run(t, "admin", "status", "--api", "http://127.0.0.1:1", "--secret", testSecret)
	require.NoError(t, err)
	require.Equal(t, "admin: denied\n", out)
}
