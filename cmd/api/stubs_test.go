package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mvalderas/tienda-api/internal/auth"
	"github.com/mvalderas/tienda-api/internal/order"
	"github.com/mvalderas/tienda-api/internal/product"
	"github.com/mvalderas/tienda-api/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

//
// ---------- STUBS IN MEMORY ----------
//

type memUserRepo struct {
	users map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*user.User)}
}

func (m *memUserRepo) Create(_ context.Context, u *user.User) error {
	for _, e := range m.users {
		if e.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	cp := *u
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.users[u.ID] = &cp
	u.CreatedAt = cp.CreatedAt
	u.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUserRepo) Update(_ context.Context, u *user.User, updatePassword bool) error {
	cur, ok := m.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	if u.Email != "" {
		for id, e := range m.users {
			if id != u.ID && e.Email == u.Email {
				return user.ErrAlreadyExist
			}
		}
		cur.Email = u.Email
	}
	if u.Role != "" {
		cur.Role = u.Role
	}
	if updatePassword {
		cur.PasswordHash = u.PasswordHash
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

type memProductRepo struct {
	items map[string]*product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[string]*product.Product)}
}

func (m *memProductRepo) Create(_ context.Context, p *product.Product) error {
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.items[p.ID] = &cp
	p.CreatedAt = cp.CreatedAt
	p.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) List(_ context.Context, q product.Query) ([]product.Product, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	var out []product.Product
	for _, p := range m.items {
		if q.Q != "" &&
			!strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Q)) &&
			!strings.Contains(strings.ToLower(p.Description), strings.ToLower(q.Q)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if offset > len(out) {
		return []product.Product{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *memProductRepo) Update(_ context.Context, id string, in product.UpdateInput) error {
	cur, ok := m.items[id]
	if !ok {
		return product.ErrNotFound
	}
	if in.Name != "" {
		cur.Name = in.Name
	}
	if in.Description != "" {
		cur.Description = in.Description
	}
	if in.Price != nil {
		cur.Price = *in.Price
	}
	if in.Stock != nil {
		cur.Stock = *in.Stock
	}
	if in.ImageURL != "" {
		cur.ImageURL = in.ImageURL
	}
	if in.Category != "" {
		cur.Category = in.Category
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

// memOrderRepo mirrors the transactional contract of the real repository:
// either every line passes the product/stock checks and stock is taken, or
// nothing changes at all.
type memOrderRepo struct {
	products *memProductRepo
	users    *memUserRepo
	orders   map[string]*order.Order
}

func newMemOrderRepo(products *memProductRepo, users *memUserRepo) *memOrderRepo {
	return &memOrderRepo{products: products, users: users, orders: make(map[string]*order.Order)}
}

func (m *memOrderRepo) Place(_ context.Context, userID string, reqs []order.CreateOrderItem) (*order.Order, error) {
	// validate everything before mutating anything
	for _, req := range reqs {
		p, ok := m.products.items[req.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", product.ErrNotFound, req.ProductID)
		}
		if p.Stock < req.Quantity {
			return nil, fmt.Errorf("%w for product: %s", order.ErrInsufficientStock, p.Name)
		}
	}

	o := &order.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    order.StatusPending,
		Total:     decimal.Zero,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	for _, req := range reqs {
		p := m.products.items[req.ProductID]
		p.Stock -= req.Quantity
		o.Total = o.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(req.Quantity))))
		o.Items = append(o.Items, order.Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			Price:     p.Price,
			Product:   &order.ItemProduct{ID: p.ID, Name: p.Name},
		})
	}
	m.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) ListAll(_ context.Context) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.orders {
		cp := *o
		if u, ok := m.users.users[o.UserID]; ok {
			cp.User = &order.UserSummary{ID: u.ID, Email: u.Email, Role: u.Role}
		}
		out = append(out, cp)
	}
	return out, nil
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	return nil
}

//
// ---------- TEST ENV ----------
//

type testEnv struct {
	router   *gin.Engine
	users    *memUserRepo
	products *memProductRepo
	orders   *memOrderRepo
	tokens   *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newMemUserRepo()
	products := newMemProductRepo()
	orders := newMemOrderRepo(products, users)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	router := buildRouter(deps{
		users:    user.NewService(users),
		products: products,
		orders:   order.NewService(orders, users),
		tokens:   tokens,
		env:      "test",
	})
	return &testEnv{router: router, users: users, products: products, orders: orders, tokens: tokens}
}

// seedUser inserts a user directly and returns a valid token for it.
func (e *testEnv) seedUser(t *testing.T, email, role string) (id, token string) {
	t.Helper()
	id = uuid.NewString()
	hash, err := user.HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := e.users.Create(context.Background(), &user.User{
		ID: id, Email: email, PasswordHash: hash, Role: role,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err = e.tokens.Sign(id, email, role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return id, token
}

func (e *testEnv) seedProduct(t *testing.T, name, price string, stock int) string {
	t.Helper()
	id := uuid.NewString()
	if err := e.products.Create(context.Background(), &product.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: "test",
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return id
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status=%d body=%s (esperaba %d)", w.Code, w.Body.String(), want)
	}
}
