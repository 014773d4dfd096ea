package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// fakeAPI is an in-memory vendor backend.
type fakeAPI struct {
	mu      sync.Mutex
	records []vendoractivo.Record
}

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	created := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	api := &fakeAPI{records: []vendoractivo.Record{
		{ID: "v1", DisplayName: "Beta Store", Email: "beta@example.com", Role: vendoractivo.RoleVendor, Verified: true, CreatedAt: created},
		{ID: "v2", DisplayName: "Gamma Shop", Email: "gamma@example.com", Role: vendoractivo.RoleUser, CreatedAt: created},
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, vendoractivo.LoginResponse{
			Success: true,
			Token:   "tok",
			User:    vendoractivo.User{ID: "admin1", Name: "Ops", Email: "ops@example.com", Role: vendoractivo.RoleAdmin},
		})
	})
	mux.HandleFunc("GET /vendedoractivo", api.authed(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		api.mu.Lock()
		defer api.mu.Unlock()
		total := len(api.records)
		pages := (total + vendoractivo.PageSize - 1) / vendoractivo.PageSize
		start := (page - 1) * vendoractivo.PageSize
		end := min(start+vendoractivo.PageSize, total)
		data := []vendoractivo.Record{}
		if start < end {
			data = append(data, api.records[start:end]...)
		}
		writeJSON(w, http.StatusOK, vendoractivo.ListResponse{
			Success:    true,
			Data:       data,
			Pagination: vendoractivo.Pagination{Page: page, Limit: vendoractivo.PageSize, Total: total, Pages: pages},
		})
	}))
	mux.HandleFunc("PATCH /vendedoractivo/{id}/freeze", api.authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		for i := range api.records {
			if api.records[i].ID == r.PathValue("id") {
				api.records[i].IsFrozen = !api.records[i].IsFrozen
				writeJSON(w, http.StatusOK, map[string]any{"data": map[string]bool{"isFrozen": api.records[i].IsFrozen}})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}))
	mux.HandleFunc("DELETE /vendedoractivo/{id}", api.authed(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		for i := range api.records {
			if api.records[i].ID == r.PathValue("id") {
				api.records = append(api.records[:i], api.records[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]bool{"success": true})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (a *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token requerido"})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setupCLI(t *testing.T) string {
	t.Helper()
	srv := newFakeAPI(t)
	t.Setenv("VENDOR_API_BASE_URL", srv.URL)
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("DB_HOST", "")
	return filepath.Join(t.TempDir(), "session.yaml")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	outputFlag, sessionFile, pageFlag = "table", "", 1
	roleTarget, assumeYes = "", false
	loginEmail, loginPassword = "", ""

	var out bytes.Buffer
	root := Root()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_Workflow(t *testing.T) {
	sess := setupCLI(t)

	out, err := run(t, "", "login", "--session", sess, "--email", "ops@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "/dashboard/admin1")

	out, err = run(t, "", "list", "--session", sess)
	require.NoError(t, err)
	assert.Contains(t, out, "Total on server: 2")
	assert.Contains(t, out, "Beta Store")
	assert.Contains(t, out, "12 mar 2024")

	out, err = run(t, "", "freeze", "v1", "--session", sess)
	require.NoError(t, err)
	assert.Contains(t, out, "Beta Store: role=vendedor status=frozen")
	assert.Contains(t, out, "Beta Store is frozen and cannot upload products.")

	out, err = run(t, "n\n", "delete", "v2", "--session", sess)
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete Gamma Shop?")
	assert.Contains(t, out, "Deletion cancelled.")

	out, err = run(t, "", "delete", "v2", "--yes", "--session", sess)
	require.NoError(t, err)
	assert.NotContains(t, out, "Gamma Shop")
	assert.Contains(t, out, "Total on server: 1")

	_, err = run(t, "", "logout", "--session", sess)
	require.NoError(t, err)
	_, err = run(t, "", "list", "--session", sess)
	assert.ErrorIs(t, err, vendoractivo.ErrRequestFailed)
}

func TestCLI_ListJSON(t *testing.T) {
	sess := setupCLI(t)
	_, err := run(t, "", "login", "--session", sess, "--email", "ops@example.com", "--password", "secret")
	require.NoError(t, err)

	out, err := run(t, "", "list", "--session", sess, "-o", "json")
	require.NoError(t, err)

	var view console.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 2, view.Stats.TotalOnServer)
	assert.Equal(t, 1, view.Stats.VendorCount)
	assert.Len(t, view.Records, 2)
	assert.Empty(t, view.Window)
}

func TestCLI_PageOutOfRange(t *testing.T) {
	sess := setupCLI(t)
	_, err := run(t, "", "login", "--session", sess, "--email", "ops@example.com", "--password", "secret")
	require.NoError(t, err)

	_, err = run(t, "", "list", "--session", sess, "--page", "3")
	assert.ErrorContains(t, err, "out of range")
}

func TestCLI_UnknownOutput(t *testing.T) {
	_, err := run(t, "", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestCLI_Version(t *testing.T) {
	SetVersion("1.2.3")
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "consolectl 1.2.3\n", out)
}
