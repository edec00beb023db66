package resolver

import (
	"context"
	"strings"

	"foodbank-inventory/internal/aggregate"
	"foodbank-inventory/internal/model"
	"foodbank-inventory/internal/service"

	"github.com/google/uuid"
)

// Resolver is the query/mutation surface of the API. Reads are public; every
// mutation of inventory data needs an authenticated Caller.
type Resolver struct {
	inventory service.InventoryService
	auth      service.AuthService
	dashboard service.DashboardService
	ops       map[string]operation
}

func New(inventory service.InventoryService, auth service.AuthService, dashboard service.DashboardService) *Resolver {
	r := &Resolver{
		inventory: inventory,
		auth:      auth,
		dashboard: dashboard,
	}
	r.ops = r.operations()
	return r
}

// AddProductInput mirrors the addProduct mutation arguments
type AddProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Quantity    *int    `json:"quantity"`
	CategoryID  *string `json:"categoryId"`
}

// UpdateProductInput mirrors the updateProduct mutation arguments; nil means "leave as is"
type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Quantity    *int    `json:"quantity"`
}

func requireAuth(caller Caller) error {
	if !caller.Authenticated() {
		return service.ErrNotLoggedIn
	}
	return nil
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, &service.ValidationError{Field: field, Reason: "must be a valid id"}
	}
	return id, nil
}

// Queries

func (r *Resolver) Me(ctx context.Context, caller Caller) (*model.UserResponse, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	user, err := r.auth.Me(ctx, caller.UserID)
	if err != nil {
		if service.IsNotFound(err) {
			return nil, service.ErrNotLoggedIn
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (r *Resolver) Categories(ctx context.Context) ([]model.Category, error) {
	return r.inventory.GetCategories(ctx)
}

func (r *Resolver) Category(ctx context.Context, categoryID string) (*model.Category, error) {
	id, err := parseID("categoryId", categoryID)
	if err != nil {
		return nil, err
	}
	return r.inventory.GetCategory(ctx, id)
}

func (r *Resolver) Products(ctx context.Context) ([]model.Product, error) {
	return r.inventory.GetProducts(ctx)
}

func (r *Resolver) Product(ctx context.Context, productID string) (*model.Product, error) {
	id, err := parseID("productId", productID)
	if err != nil {
		return nil, err
	}
	return r.inventory.GetProduct(ctx, id)
}

func (r *Resolver) ProductByName(ctx context.Context, name string) (*model.Product, error) {
	return r.inventory.GetProductByName(ctx, name)
}

func (r *Resolver) Transactions(ctx context.Context) ([]aggregate.Row, error) {
	return r.dashboard.GetTransactions(ctx)
}

func (r *Resolver) Transaction(ctx context.Context, transactionID string) (*aggregate.Row, error) {
	id, err := parseID("transactionId", transactionID)
	if err != nil {
		return nil, err
	}
	return r.dashboard.GetTransaction(ctx, id)
}

func (r *Resolver) Dashboard(ctx context.Context) (*service.Dashboard, error) {
	return r.dashboard.GetDashboard(ctx)
}

func (r *Resolver) StockMovement(ctx context.Context, days int) ([]aggregate.DayMovement, error) {
	return r.dashboard.GetStockMovement(ctx, days)
}

// Mutations

func (r *Resolver) AddUser(ctx context.Context, username, email, password string) (*service.AuthPayload, error) {
	return r.auth.AddUser(ctx, &service.AddUserRequest{Username: username, Email: email, Password: password})
}

func (r *Resolver) Login(ctx context.Context, email, password string) (*service.AuthPayload, error) {
	return r.auth.Login(ctx, email, password)
}

func (r *Resolver) AddCategory(ctx context.Context, caller Caller, name string) (*model.Category, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	return r.inventory.CreateCategory(ctx, &service.CreateCategoryRequest{Name: name}, caller.actor())
}

func (r *Resolver) DeleteCategory(ctx context.Context, caller Caller, categoryID string) (*model.Category, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	id, err := parseID("id", categoryID)
	if err != nil {
		return nil, err
	}
	return r.inventory.DeleteCategory(ctx, id, caller.actor())
}

func (r *Resolver) AddProduct(ctx context.Context, caller Caller, in AddProductInput) (*model.Product, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	req := &service.CreateProductRequest{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Quantity:    in.Quantity,
	}
	// An empty categoryId means "no category", as the admin form sends it
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != "" {
		id, err := parseID("categoryId", *in.CategoryID)
		if err != nil {
			// Garbage ids cannot resolve to a category
			return nil, &service.NotFoundError{Kind: "category", ID: *in.CategoryID}
		}
		req.CategoryID = &id
	}
	return r.inventory.CreateProduct(ctx, req, caller.actor())
}

func (r *Resolver) UpdateProduct(ctx context.Context, caller Caller, productID string, in UpdateProductInput) (*model.Product, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	id, err := parseID("id", productID)
	if err != nil {
		return nil, err
	}
	return r.inventory.UpdateProduct(ctx, id, &service.UpdateProductRequest{
		Name:        in.Name,
		Description: in.Description,
		Quantity:    in.Quantity,
	}, caller.actor())
}

func (r *Resolver) DeleteProduct(ctx context.Context, caller Caller, productID string) (*model.Product, error) {
	if err := requireAuth(caller); err != nil {
		return nil, err
	}
	id, err := parseID("id", productID)
	if err != nil {
		return nil, err
	}
	return r.inventory.DeleteProduct(ctx, id, caller.actor())
}
