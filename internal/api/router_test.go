package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfolio/rentfolio/internal/api"
	"github.com/rentfolio/rentfolio/internal/domain"
	"github.com/rentfolio/rentfolio/internal/repository"
	"github.com/rentfolio/rentfolio/pkg/testsupport"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	m := testsupport.NewManager(t)
	c := testsupport.NewCache(t)
	handler := api.NewRouter(api.Deps{
		Log:        zap.NewNop(),
		Cache:      c,
		Owners:     repository.NewOwners(m, c),
		Properties: repository.NewProperties(m, c),
		Tenants:    repository.NewTenants(m, c),
		Brokers:    repository.NewBrokers(m, c),
		Contracts:  repository.NewContracts(m, c),
		Financial:  repository.NewFinancial(m, c),
		Users:      repository.NewUsers(m, c),
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestOwnersEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	var created domain.Owner
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/owners", domain.Owner{Name: "Maria"}, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)

	var list []domain.Owner
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/owners", nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 1)

	var fetched domain.Owner
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/owners/"+created.ID, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Maria", fetched.Name)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/owners/owner-missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var updated domain.Owner
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/owners/"+created.ID,
		map[string]string{"name": "Maria Silva"}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Maria Silva", updated.Name)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/v1/owners/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateValidationIs400(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/owners", map[string]string{"email": "a@b.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFinancialSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	record := domain.FinancialRecord{
		Type:    domain.FinancialTypeIncome,
		Status:  domain.FinancialStatusPaid,
		Amount:  1000,
		DueDate: "2026-03-05",
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/financial-records", record, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var summary []domain.MonthlySummaryRow
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/financial-records/summary?month=3&year=2026", nil, &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, summary, 1)
	assert.Equal(t, 1000.0, summary[0].Total)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/financial-records/summary?month=13&year=2026", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFinancialCountAndCategories(t *testing.T) {
	srv := newTestServer(t)

	var count map[string]int
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/financial-records/count", nil, &count)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, count["count"])

	var categories []domain.FinancialCategory
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/financial-records/categories", nil, &categories)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, categories, 2, "the two seeded default categories")
}

func TestUsersLogin(t *testing.T) {
	srv := newTestServer(t)

	user := domain.User{Name: "Ana", Email: "ana@example.com", Password: "s3cret-pass"}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/users", user, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var logged domain.User
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/users/login",
		map[string]string{"email": "ana@example.com", "password": "s3cret-pass"}, &logged)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana", logged.Name)
	assert.Empty(t, logged.Password)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/users/login",
		map[string]string{"email": "ana@example.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCacheStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Populate the static tier, then read stats.
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/v1/financial-records/categories", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]struct {
		Keys   int   `json:"keys"`
		Hits   int64 `json:"hits"`
		Misses int64 `json:"misses"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/v1/cache/stats", nil, &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats["static"].Keys)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/cache/clear", nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
