package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/user-role-service/pkg/bootstrap"
	pkgconfig "github.com/tendant/user-role-service/pkg/config"
	"github.com/tendant/user-role-service/pkg/docstore"
	"github.com/tendant/user-role-service/pkg/role"
	"github.com/tendant/user-role-service/pkg/user"
)

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func createTestConfig(t *testing.T) pkgconfig.Config {
	t.Helper()
	return pkgconfig.Config{
		BaseURL:                "http://localhost:8080",
		RoleIDFormat:           "uuid",
		RoleCleanupConcurrency: 4,
		Prefix:                 pkgconfig.DefaultPrefixes(),
		Store:                  pkgconfig.StoreConfig{Persistence: pkgconfig.PersistenceMemory},
	}
}

func setupTestServer(t *testing.T) (*httptest.Server, *Services) {
	t.Helper()
	ctx := context.Background()
	cfg := createTestConfig(t)

	store := docstore.NewMemoryStore()
	services, err := NewServices(ctx, store, cfg)
	require.NoError(t, err)

	routeCfg := NewConfig(services, store, cfg)
	routeCfg.StartTime = time.Now()
	routeCfg.Version = "test"

	server := httptest.NewServer(NewRouter(routeCfg))
	t.Cleanup(server.Close)
	return server, services
}

func doRequest(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json", "Accept": "application/json"}

func TestRoutes_StatusCodes(t *testing.T) {
	server, services := setupTestServer(t)
	ctx := context.Background()

	existingRole, err := services.RoleService.CreateRole(ctx, role.Role{Rolename: "R1", Description: "d"})
	require.NoError(t, err)
	_, err = services.UserService.CreateUser(ctx, user.User{UserID: "existing", Name: "N"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		headers   map[string]string
		wantCode  int
		wantEmpty bool
	}{
		{name: "list users", method: http.MethodGet, path: "/api/user", wantCode: http.StatusOK},
		{name: "get user", method: http.MethodGet, path: "/api/user/existing", wantCode: http.StatusOK},
		{name: "get missing user", method: http.MethodGet, path: "/api/user/nonexisting", wantCode: http.StatusNotFound, wantEmpty: true},
		{name: "create user", method: http.MethodPost, path: "/api/user", body: `{"userId":"new","name":"N","roles":[]}`, headers: jsonHeaders, wantCode: http.StatusCreated},
		{name: "create user wrong content type", method: http.MethodPost, path: "/api/user", body: `{"userId":"x"}`, headers: map[string]string{"Content-Type": "text/plain"}, wantCode: http.StatusBadRequest},
		{name: "create user malformed", method: http.MethodPost, path: "/api/user", body: `{`, headers: jsonHeaders, wantCode: http.StatusBadRequest},
		{name: "create user missing id", method: http.MethodPost, path: "/api/user", body: `{"name":"N"}`, headers: jsonHeaders, wantCode: http.StatusBadRequest},
		{name: "update user", method: http.MethodPut, path: "/api/user/existing", body: `{"name":"M"}`, headers: jsonHeaders, wantCode: http.StatusOK},
		{name: "update missing user", method: http.MethodPut, path: "/api/user/nonexisting", body: `{"name":"M"}`, headers: jsonHeaders, wantCode: http.StatusNotFound, wantEmpty: true},
		{name: "update user malformed", method: http.MethodPut, path: "/api/user/existing", body: `{`, headers: jsonHeaders, wantCode: http.StatusBadRequest},
		{name: "delete missing user", method: http.MethodDelete, path: "/api/user/nonexisting", wantCode: http.StatusOK, wantEmpty: true},
		{name: "list roles", method: http.MethodGet, path: "/api/role", wantCode: http.StatusOK},
		{name: "get role", method: http.MethodGet, path: "/api/role/" + existingRole.ID, wantCode: http.StatusOK},
		{name: "get missing role", method: http.MethodGet, path: "/api/role/nonexisting", wantCode: http.StatusNotFound, wantEmpty: true},
		{name: "create role", method: http.MethodPost, path: "/api/role", body: `{"rolename":"R2"}`, headers: jsonHeaders, wantCode: http.StatusCreated},
		{name: "create role not accepting json", method: http.MethodPost, path: "/api/role", body: `{"rolename":"R2"}`, headers: map[string]string{"Content-Type": "application/json", "Accept": "text/plain"}, wantCode: http.StatusBadRequest},
		{name: "create role malformed", method: http.MethodPost, path: "/api/role", body: `{`, headers: jsonHeaders, wantCode: http.StatusBadRequest},
		{name: "update role", method: http.MethodPut, path: "/api/role/" + existingRole.ID, body: `{"rolename":"R1b"}`, headers: jsonHeaders, wantCode: http.StatusOK},
		{name: "update missing role", method: http.MethodPut, path: "/api/role/nonexisting", body: `{"rolename":"x"}`, headers: jsonHeaders, wantCode: http.StatusNotFound, wantEmpty: true},
		{name: "update role wrong content type", method: http.MethodPut, path: "/api/role/" + existingRole.ID, body: `{"rolename":"x"}`, headers: map[string]string{"Content-Type": "text/plain"}, wantCode: http.StatusBadRequest},
		{name: "update role malformed", method: http.MethodPut, path: "/api/role/" + existingRole.ID, body: `{`, headers: jsonHeaders, wantCode: http.StatusBadRequest},
		{name: "delete missing role", method: http.MethodDelete, path: "/api/role/nonexisting", wantCode: http.StatusOK, wantEmpty: true},
		{name: "livez", method: http.MethodGet, path: "/livez", wantCode: http.StatusOK},
		{name: "readyz", method: http.MethodGet, path: "/readyz", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doRequest(t, tt.method, server.URL+tt.path, tt.body, tt.headers)
			assert.Equal(t, tt.wantCode, resp.StatusCode, body)
			if tt.wantEmpty {
				assert.Empty(t, body)
			}
		})
	}
}

func TestRoutes_CreateLocationHeaders(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := doRequest(t, http.MethodPost, server.URL+"/api/role", `{"id":"client","rolename":"R1","description":"d"}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created role.Role
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "http://localhost:8080/api/role/"+created.ID, resp.Header.Get("Location"))

	resp, _ = doRequest(t, http.MethodPost, server.URL+"/api/user", `{"userId":"u1","name":"N"}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "http://localhost:8080/api/user/u1", resp.Header.Get("Location"))
}

func TestRoutes_EmptyCollections(t *testing.T) {
	server, _ := setupTestServer(t)

	for _, path := range []string{"/api/user", "/api/role"} {
		resp, body := doRequest(t, http.MethodGet, server.URL+path, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, body, path)
	}
}

// Deleting a role strips it from every user that references it
func TestRoutes_DeleteRoleCleansUsers(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := doRequest(t, http.MethodPost, server.URL+"/api/role", `{"rolename":"R1","description":"d"}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created role.Role
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	resp, _ = doRequest(t, http.MethodPost, server.URL+"/api/user", `{"userId":"u1","name":"N","roles":[{"id":"`+created.ID+`"}]}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doRequest(t, http.MethodPost, server.URL+"/api/user", `{"userId":"u2","name":"M","roles":[{"id":"`+created.ID+`"},{"id":"other"}]}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doRequest(t, http.MethodDelete, server.URL+"/api/role/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"`+created.ID+`","rolename":"R1","description":"d"}`, body)

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/user/u1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1","name":"N","roles":[]}`, body)

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/user/u2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u2","name":"M","roles":[{"id":"other","rolename":"","description":""}]}`, body)

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/role/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, body)

	// a second delete is a no-op
	resp, body = doRequest(t, http.MethodDelete, server.URL+"/api/role/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}

// Users carry role references; reads show the role as it is now
func TestRoutes_UserRolesFollowRoleUpdates(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := doRequest(t, http.MethodPost, server.URL+"/api/role", `{"rolename":"R1","description":"d"}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created role.Role
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	resp, body = doRequest(t, http.MethodPost, server.URL+"/api/user", `{"userId":"u1","name":"N","roles":[{"id":"`+created.ID+`"}]}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1","name":"N","roles":[{"id":"`+created.ID+`","rolename":"R1","description":"d"}]}`, body)

	resp, _ = doRequest(t, http.MethodPut, server.URL+"/api/role/"+created.ID, `{"rolename":"Renamed"}`, jsonHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/user/u1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1","name":"N","roles":[{"id":"`+created.ID+`","rolename":"Renamed","description":""}]}`, body)

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/user", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"userId":"u1","name":"N","roles":[{"id":"`+created.ID+`","rolename":"Renamed","description":""}]}]`, body)
}

func TestRoutes_SeededUserHasFullRole(t *testing.T) {
	server, services := setupTestServer(t)

	_, err := bootstrap.SeedDemoData(context.Background(), bootstrap.SeedConfig{
		RoleRepository: services.RoleRepository,
		UserRepository: services.UserRepository,
	})
	require.NoError(t, err)

	resp, body := doRequest(t, http.MethodGet, server.URL+"/api/user/user1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"user1","name":"Karl Benknäckare","roles":[{"id":"1-1-1-1-1","rolename":"R1","description":"Beskrivning av roll R1"}]}`, body)
}

func TestRoutes_RoleRoundTrip(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := doRequest(t, http.MethodPost, server.URL+"/api/role", `{"rolename":"R1","description":"d"}`, jsonHeaders)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created role.Role
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/role/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched role.Role
	require.NoError(t, json.Unmarshal([]byte(body), &fetched))
	assert.Equal(t, created, fetched)

	resp, body = doRequest(t, http.MethodPut, server.URL+"/api/role/"+created.ID, `{"id":"ignored","rolename":"R9"}`, jsonHeaders)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"`+created.ID+`","rolename":"R9","description":""}`, body)

	resp, body = doRequest(t, http.MethodGet, server.URL+"/api/role", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roles []role.Role
	require.NoError(t, json.Unmarshal([]byte(body), &roles))
	assert.Equal(t, []role.Role{{ID: created.ID, Rolename: "R9"}}, roles)
}

func TestRoutes_CORS(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := doRequest(t, http.MethodOptions, server.URL+"/api/user", "", map[string]string{
		"Origin":                         "http://example.com",
		"Access-Control-Request-Method":  http.MethodPut,
		"Access-Control-Request-Headers": "Content-Type, X-Custom",
	})
	assert.Equal(t, "http://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)

	resp, _ = doRequest(t, http.MethodGet, server.URL+"/api/role", "", map[string]string{"Origin": "https://other.example"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://other.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestReadyz_StoreDown(t *testing.T) {
	w := httptest.NewRecorder()
	ReadyzHandler(time.Now(), "test", failingPinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	require.NotNil(t, resp.Checks)
	assert.Contains(t, resp.Checks.Store, "connection refused")
}

func TestLivez(t *testing.T) {
	w := httptest.NewRecorder()
	LivezHandler(time.Now(), "1.2.3").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Nil(t, resp.Checks)
}
