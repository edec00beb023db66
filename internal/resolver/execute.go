package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"foodbank-inventory/internal/service"
)

type operation func(ctx context.Context, caller Caller, vars json.RawMessage) (interface{}, error)

// Request is one named operation with its variables, as posted to the graph endpoint
type Request struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables"`
}

// Execute runs the named operation. Unknown operations and malformed variables
// are ValidationErrors.
func (r *Resolver) Execute(ctx context.Context, caller Caller, req Request) (interface{}, error) {
	op, ok := r.ops[req.Operation]
	if !ok {
		return nil, &service.ValidationError{Field: "operation", Reason: fmt.Sprintf("unknown operation %q", req.Operation)}
	}
	return op(ctx, caller, req.Variables)
}

// Operations lists the names Execute accepts, sorted
func (r *Resolver) Operations() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decodeVars(raw json.RawMessage, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &service.ValidationError{Field: "variables", Reason: err.Error()}
	}
	return nil
}

func (r *Resolver) operations() map[string]operation {
	return map[string]operation{
		"me": func(ctx context.Context, caller Caller, _ json.RawMessage) (interface{}, error) {
			return r.Me(ctx, caller)
		},
		"categories": func(ctx context.Context, _ Caller, _ json.RawMessage) (interface{}, error) {
			return r.Categories(ctx)
		},
		"category": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				CategoryID string `json:"categoryId"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.Category(ctx, v.CategoryID)
		},
		"products": func(ctx context.Context, _ Caller, _ json.RawMessage) (interface{}, error) {
			return r.Products(ctx)
		},
		"product": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				ProductID string `json:"productId"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.Product(ctx, v.ProductID)
		},
		"productByName": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				Name string `json:"name"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.ProductByName(ctx, v.Name)
		},
		"transactions": func(ctx context.Context, _ Caller, _ json.RawMessage) (interface{}, error) {
			return r.Transactions(ctx)
		},
		"transaction": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				TransactionID string `json:"transactionId"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.Transaction(ctx, v.TransactionID)
		},
		"dashboard": func(ctx context.Context, _ Caller, _ json.RawMessage) (interface{}, error) {
			return r.Dashboard(ctx)
		},
		"stockMovement": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			v := struct {
				Days int `json:"days"`
			}{Days: 7}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.StockMovement(ctx, v.Days)
		},
		"addUser": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				Username string `json:"username"`
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.AddUser(ctx, v.Username, v.Email, v.Password)
		},
		"login": func(ctx context.Context, _ Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.Login(ctx, v.Email, v.Password)
		},
		"addCategory": func(ctx context.Context, caller Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				Name string `json:"name"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.AddCategory(ctx, caller, v.Name)
		},
		"deleteCategory": func(ctx context.Context, caller Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				ID string `json:"id"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.DeleteCategory(ctx, caller, v.ID)
		},
		"addProduct": func(ctx context.Context, caller Caller, raw json.RawMessage) (interface{}, error) {
			var v AddProductInput
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.AddProduct(ctx, caller, v)
		},
		"updateProduct": func(ctx context.Context, caller Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				ID string `json:"id"`
				UpdateProductInput
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.UpdateProduct(ctx, caller, v.ID, v.UpdateProductInput)
		},
		"deleteProduct": func(ctx context.Context, caller Caller, raw json.RawMessage) (interface{}, error) {
			var v struct {
				ID string `json:"id"`
			}
			if err := decodeVars(raw, &v); err != nil {
				return nil, err
			}
			return r.DeleteProduct(ctx, caller, v.ID)
		},
	}
}
