package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodbank-inventory/internal/repository"
	"foodbank-inventory/internal/resolver"
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/database"
	"foodbank-inventory/pkg/jwt"
	"foodbank-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func newTestApp(t *testing.T, loginLimit int) *fiber.App {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:", gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	store := repository.NewStore(db)
	log := logger.Nop()
	auth := service.NewAuthService(store.Users, jwt.NewManager("test-secret", time.Hour, "test"), log)
	r := resolver.New(service.NewInventoryService(store, log), auth, service.NewDashboardService(store, time.UTC))
	return NewApp(r, auth, log, AppOptions{Name: "test", LoginRateLimit: loginLimit})
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 {
		var list []interface{}
		require.NoError(t, json.Unmarshal(raw, &list))
		out["list"] = list
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, out := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "volunteer", "email": "vol@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status, out)
	return out["token"].(string)
}

func TestGraphEndpointScenario(t *testing.T) {
	app := newTestApp(t, 0)
	token := register(t, app)

	status, out := call(t, app, http.MethodPost, "/api/v1/graph", token, map[string]interface{}{
		"operation": "addCategory", "variables": map[string]string{"name": "Fruit"},
	})
	require.Equal(t, http.StatusOK, status, out)
	fruitID := out["data"].(map[string]interface{})["id"].(string)

	status, out = call(t, app, http.MethodPost, "/api/v1/graph", token, map[string]interface{}{
		"operation": "addProduct", "variables": map[string]interface{}{"name": "Apple", "quantity": 10, "categoryId": fruitID},
	})
	require.Equal(t, http.StatusOK, status, out)
	appleID := out["data"].(map[string]interface{})["id"].(string)

	status, out = call(t, app, http.MethodPost, "/api/v1/graph", "", map[string]interface{}{"operation": "category", "variables": map[string]string{"categoryId": fruitID}})
	require.Equal(t, http.StatusOK, status)
	ids := out["data"].(map[string]interface{})["product_ids"].([]interface{})
	require.Equal(t, []interface{}{appleID}, ids)

	status, out = call(t, app, http.MethodPost, "/api/v1/graph", "", map[string]interface{}{"operation": "dashboard"})
	require.Equal(t, http.StatusOK, status)
	stats := out["data"].(map[string]interface{})["stats"].(map[string]interface{})
	require.EqualValues(t, 1, stats["total_products"])
	require.EqualValues(t, 10, stats["total_quantity"])
	require.EqualValues(t, 3, stats["total_categories"])

	for i, want := range []bool{true, false} {
		status, out = call(t, app, http.MethodPost, "/api/v1/graph", token, map[string]interface{}{
			"operation": "deleteProduct", "variables": map[string]string{"id": appleID},
		})
		require.Equal(t, http.StatusOK, status, "call %d", i)
		require.Equal(t, want, out["data"] != nil, "call %d", i)
	}
}

func TestGraphEndpointErrors(t *testing.T) {
	app := newTestApp(t, 0)

	status, out := call(t, app, http.MethodPost, "/api/v1/graph", "", map[string]interface{}{
		"operation": "addCategory", "variables": map[string]string{"name": "Fruit"},
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotEmpty(t, out["error"])

	status, _ = call(t, app, http.MethodPost, "/api/v1/graph", "", map[string]interface{}{"operation": "me"})
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/graph", "", map[string]interface{}{"operation": "nope"})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/graph", "", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, status)

	token := register(t, app)
	status, _ = call(t, app, http.MethodPost, "/api/v1/graph", token, map[string]interface{}{
		"operation": "addProduct", "variables": map[string]interface{}{"name": "Apple", "categoryId": "00000000-0000-0000-0000-000000000001"},
	})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/graph", token, map[string]interface{}{
		"operation": "addProduct", "variables": map[string]interface{}{"name": "Apple", "quantity": -1},
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, out = call(t, app, http.MethodGet, "/api/v1/graph", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, out["operations"], "updateProduct")
}

func TestRESTProductLifecycle(t *testing.T) {
	app := newTestApp(t, 0)

	status, _ := call(t, app, http.MethodPost, "/api/v1/products", "", map[string]interface{}{"name": "Rice"})
	require.Equal(t, http.StatusUnauthorized, status)

	token := register(t, app)
	status, out := call(t, app, http.MethodPost, "/api/v1/products", token, map[string]interface{}{"name": "Rice", "quantity": 4})
	require.Equal(t, http.StatusCreated, status, out)
	id := out["data"].(map[string]interface{})["id"].(string)

	status, out = call(t, app, http.MethodPut, "/api/v1/products/"+id, token, map[string]interface{}{"quantity": 0})
	require.Equal(t, http.StatusOK, status, out)
	data := out["data"].(map[string]interface{})
	require.EqualValues(t, 0, data["quantity"])
	require.Equal(t, "Rice", data["name"])

	status, out = call(t, app, http.MethodGet, "/api/v1/products?name=rice", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, id, out["id"])

	status, out = call(t, app, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out["list"], 1)

	status, _ = call(t, app, http.MethodDelete, "/api/v1/products/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodDelete, "/api/v1/products/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/products/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRESTAuth(t *testing.T) {
	app := newTestApp(t, 0)
	token := register(t, app)

	status, out := call(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "volunteer", out["username"])

	status, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", "bogus", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, unknown := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, status)
	status, wrong := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "vol@example.com", "password": "nope123"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, unknown["error"], wrong["error"])

	status, out = call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "vol@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out["token"])
}

func TestLoginRateLimit(t *testing.T) {
	app := newTestApp(t, 2)

	for i := 0; i < 2; i++ {
		status, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "a@example.com", "password": "x"})
		require.Equal(t, http.StatusUnauthorized, status)
	}
	status, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "a@example.com", "password": "x"})
	require.Equal(t, http.StatusTooManyRequests, status)
}

func TestHealthAndDashboardRoutes(t *testing.T) {
	app := newTestApp(t, 0)

	status, out := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", out["status"])

	status, out = call(t, app, http.MethodGet, "/api/v1/dashboard/stock-movement?days=3", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out["data"], 3)

	status, _ = call(t, app, http.MethodGet, "/api/v1/dashboard/stock-movement?days=abc", "", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, out = call(t, app, http.MethodGet, "/api/v1/transactions", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, out["list"])
}

func TestUnknownAPIPathIsNotFound(t *testing.T) {
	app := newTestApp(t, 0)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		status, _ := call(t, app, method, "/api/v1/nonexistent", "", nil)
		require.Equal(t, http.StatusNotFound, status, method)
	}

	// protected routes still reject anonymous callers
	status, _ := call(t, app, http.MethodDelete, "/api/v1/categories/"+uuid.New().String(), "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestTransactionRoute(t *testing.T) {
	app := newTestApp(t, 0)

	status, out := call(t, app, http.MethodGet, "/api/v1/transactions/"+uuid.New().String(), "", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Transaction not found", out["error"])

	status, _ = call(t, app, http.MethodGet, "/api/v1/transactions/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, status)
}
