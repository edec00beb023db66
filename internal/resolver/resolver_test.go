package resolver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"foodbank-inventory/internal/aggregate"
	"foodbank-inventory/internal/model"
	"foodbank-inventory/internal/repository"
	"foodbank-inventory/internal/service"
	"foodbank-inventory/pkg/database"
	"foodbank-inventory/pkg/jwt"
	"foodbank-inventory/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func newTestResolver(t *testing.T) *Resolver {
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
	return New(
		service.NewInventoryService(store, log),
		service.NewAuthService(store.Users, jwt.NewManager("test-secret", time.Hour, "test"), log),
		service.NewDashboardService(store, time.UTC),
	)
}

func signUp(t *testing.T, r *Resolver) Caller {
	t.Helper()
	payload, err := r.AddUser(context.Background(), "volunteer", "vol@example.com", "secret1")
	require.NoError(t, err)
	return Caller{UserID: payload.User.ID, Username: payload.User.Username}
}

func exec(t *testing.T, r *Resolver, caller Caller, op string, vars interface{}) (interface{}, error) {
	t.Helper()
	raw, err := json.Marshal(vars)
	require.NoError(t, err)
	return r.Execute(context.Background(), caller, Request{Operation: op, Variables: raw})
}

func TestMeRequiresAuthentication(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Me(context.Background(), Anonymous())
	require.True(t, service.IsAuthentication(err))

	caller := signUp(t, r)
	me, err := r.Me(context.Background(), caller)
	require.NoError(t, err)
	require.Equal(t, "volunteer", me.Username)

	_, err = r.Me(context.Background(), Caller{UserID: uuid.New()})
	require.True(t, service.IsAuthentication(err))
}

func TestInventoryMutationsRequireAuthentication(t *testing.T) {
	r := newTestResolver(t)
	anon := Anonymous()
	id := uuid.NewString()

	for op, vars := range map[string]interface{}{
		"addCategory":    map[string]string{"name": "Fruit"},
		"deleteCategory": map[string]string{"id": id},
		"addProduct":     map[string]string{"name": "Apple"},
		"updateProduct":  map[string]interface{}{"id": id, "quantity": 1},
		"deleteProduct":  map[string]string{"id": id},
	} {
		_, err := exec(t, r, anon, op, vars)
		require.True(t, service.IsAuthentication(err), "%s: got %v", op, err)
	}

	categories, err := r.Categories(context.Background())
	require.NoError(t, err)
	require.Empty(t, categories)
}

func TestFruitScenario(t *testing.T) {
	r := newTestResolver(t)
	caller := signUp(t, r)

	out, err := exec(t, r, caller, "addCategory", map[string]string{"name": "Fruit"})
	require.NoError(t, err)
	fruit := out.(*model.Category)

	out, err = exec(t, r, caller, "addProduct", map[string]interface{}{
		"name": "Apple", "quantity": 10, "categoryId": fruit.ID.String(),
	})
	require.NoError(t, err)
	apple := out.(*model.Product)
	require.Equal(t, caller.UserID.String(), apple.CreatedBy)

	out, err = exec(t, r, Anonymous(), "products", nil)
	require.NoError(t, err)
	products := out.([]model.Product)
	require.Len(t, products, 1)
	require.Equal(t, 10, products[0].Quantity)

	out, err = exec(t, r, Anonymous(), "category", map[string]string{"categoryId": fruit.ID.String()})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{apple.ID}, out.(*model.Category).ProductIDs)

	out, err = exec(t, r, Anonymous(), "dashboard", nil)
	require.NoError(t, err)
	dash := out.(*service.Dashboard)
	require.Equal(t, 1, dash.Stats.TotalProducts)
	require.Equal(t, 10, dash.Stats.TotalQuantity)

	out, err = exec(t, r, caller, "updateProduct", map[string]interface{}{"id": apple.ID.String(), "quantity": 0})
	require.NoError(t, err)
	require.Equal(t, 0, out.(*model.Product).Quantity)

	out, err = exec(t, r, caller, "deleteProduct", map[string]string{"id": apple.ID.String()})
	require.NoError(t, err)
	require.Equal(t, apple.ID, out.(*model.Product).ID)

	out, err = exec(t, r, caller, "deleteProduct", map[string]string{"id": apple.ID.String()})
	require.NoError(t, err)
	require.Nil(t, out.(*model.Product))

	cat, err := r.Category(context.Background(), fruit.ID.String())
	require.NoError(t, err)
	require.Empty(t, cat.ProductIDs)
}

func TestAddProductCategoryHandling(t *testing.T) {
	r := newTestResolver(t)
	caller := signUp(t, r)
	ctx := context.Background()

	empty := ""
	p, err := r.AddProduct(ctx, caller, AddProductInput{Name: "Salt", CategoryID: &empty})
	require.NoError(t, err)
	require.Nil(t, p.CategoryID)
	require.Equal(t, 1, p.Quantity)

	bogus := "not-an-id"
	_, err = r.AddProduct(ctx, caller, AddProductInput{Name: "Salt", CategoryID: &bogus})
	require.True(t, service.IsNotFound(err), "got %v", err)

	missing := uuid.NewString()
	_, err = r.AddProduct(ctx, caller, AddProductInput{Name: "Salt", CategoryID: &missing})
	require.True(t, service.IsNotFound(err), "got %v", err)

	negative := -1
	_, err = r.AddProduct(ctx, caller, AddProductInput{Name: "Salt", Quantity: &negative})
	require.True(t, service.IsValidation(err), "got %v", err)
}

func TestLoginUnknownEmail(t *testing.T) {
	r := newTestResolver(t)
	signUp(t, r)

	_, err := exec(t, r, Anonymous(), "login", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	require.True(t, service.IsAuthentication(err))
	require.Equal(t, service.ErrInvalidCredentials.Error(), err.Error())

	out, err := exec(t, r, Anonymous(), "login", map[string]string{"email": "vol@example.com", "password": "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, out.(*service.AuthPayload).Token)
}

func TestExecuteRejectsBadRequests(t *testing.T) {
	r := newTestResolver(t)
	caller := signUp(t, r)

	_, err := exec(t, r, caller, "dropDatabase", nil)
	require.True(t, service.IsValidation(err))

	_, err = exec(t, r, caller, "addProduct", map[string]interface{}{"name": "Rice", "quantity": 1.5})
	require.True(t, service.IsValidation(err), "got %v", err)

	_, err = exec(t, r, caller, "addCategory", map[string]interface{}{"name": "Rice", "color": "red"})
	require.True(t, service.IsValidation(err), "got %v", err)

	_, err = exec(t, r, Anonymous(), "product", map[string]string{"productId": "nope"})
	require.True(t, service.IsValidation(err), "got %v", err)

	out, err := exec(t, r, Anonymous(), "product", map[string]string{"productId": uuid.NewString()})
	require.NoError(t, err)
	require.Nil(t, out.(*model.Product))

	require.Contains(t, r.Operations(), "stockMovement")
	out, err = exec(t, r, Anonymous(), "stockMovement", nil)
	require.NoError(t, err)
	require.NotNil(t, out)
}

func TestTransactionLookup(t *testing.T) {
	r := newTestResolver(t)

	got, err := exec(t, r, Anonymous(), "transaction", map[string]string{"transactionId": uuid.New().String()})
	require.NoError(t, err)
	require.Nil(t, got.(*aggregate.Row))

	_, err = exec(t, r, Anonymous(), "transaction", map[string]string{"transactionId": "nope"})
	require.True(t, service.IsValidation(err))

	require.Contains(t, r.Operations(), "transaction")
}
