package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/market_api/internal/events"
	"github.com/GTDGit/market_api/internal/memstore"
	"github.com/GTDGit/market_api/internal/middleware"
	"github.com/GTDGit/market_api/internal/models"
	"github.com/GTDGit/market_api/internal/service"
	"github.com/GTDGit/market_api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *memstore.Store
	jwt    *utils.JWTManager
	dbDown bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	jwt := utils.NewJWTManager("test-secret", time.Minute, time.Hour)
	ts := &testServer{store: store, jwt: jwt}

	products := service.NewProductService(service.ProductDeps{
		Products:   store.Products(),
		Brands:     store.Brands(),
		Categories: store.Categories(),
		Galleries:  store.Galleries(),
		Images:     store.Images(),
		Properties: store.Properties(),
		Liked:      store.Liked(),
		Cart:       store.Cart(),
		Versus:     store.Versus(),
	})
	h := &Handlers{
		Health: NewHealthHandler(PingFunc(func(context.Context) error {
			if ts.dbDown {
				return errors.New("down")
			}
			return nil
		}), nil),
		Auth:    NewAuthHandler(service.NewAuthService(store.Users(), jwt), service.NewUserService(store.Users())),
		Catalog: NewCatalogHandler(service.NewCatalogService(store.Brands(), store.Categories(), store.Galleries(), nil)),
		Product: NewProductHandler(products),
		Content: NewContentHandler(
			service.NewImageService(store.Images(), store.Products()),
			service.NewPropertyService(store.Properties(), store.Products()),
		),
		Cart:    NewCartHandler(service.NewCartService(store.Cart(), store.Products())),
		Order:   NewOrderHandler(service.NewOrderService(store.Checkout(), store.Orders(), events.Nop{})),
		Social:  NewSocialHandler(service.NewSocialService(store.Liked(), store.Versus(), store.Products(), store.Categories())),
		Message: NewMessageHandler(service.NewMessageService(store.Messages()), nil),
	}

	r := gin.New()
	SetupRoutes(r, h, middleware.NewAuthMiddleware(jwt), middleware.NewFailedLoginLimiter(time.Minute, 2))
	ts.router = r
	return ts
}

// user creates an account and returns a bearer token for it.
func (ts *testServer) user(t *testing.T, name string, admin bool) (int64, string) {
	t.Helper()
	u := &models.User{Username: name, IsAdmin: admin}
	require.NoError(t, ts.store.Users().Create(context.Background(), u))
	token, err := ts.jwt.Generate(u.ID, admin, utils.TokenAccess)
	require.NoError(t, err)
	return u.ID, token
}

func (ts *testServer) product(t *testing.T, seller int64, price int64) models.Product {
	t.Helper()
	ctx := context.Background()
	b := &models.Brand{Name: "Acme"}
	require.NoError(t, ts.store.Brands().Create(ctx, b))
	c := &models.Category{Name: "Phones"}
	require.NoError(t, ts.store.Categories().Create(ctx, c))
	p := models.Product{
		Name: "Phone", Price: decimal.NewFromInt(price),
		BrandID: b.ID, CategoryID: c.ID, UserID: seller, IsCash: true,
	}
	require.NoError(t, ts.store.Products().Create(ctx, &p))
	return p
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta struct {
		RequestID  string `json:"requestId"`
		Pagination *struct {
			TotalItems int `json:"totalItems"`
		} `json:"pagination"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestAnonymousBrowsesCatalog(t *testing.T) {
	ts := newTestServer(t)
	seller, _ := ts.user(t, "seller", false)
	ts.product(t, seller, 10)

	for _, path := range []string{"/products", "/brands", "/categories", "/galleries", "/images"} {
		w := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	env := decode(t, ts.do(t, http.MethodGet, "/products", "", nil))
	require.NotNil(t, env.Meta.Pagination)
	assert.Equal(t, 1, env.Meta.Pagination.TotalItems)
}

func TestAnonymousPersonalEndpointsRequireAuth(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/cart-items", "/orders", "/order-items", "/messages", "/liked-items", "/versus-items", "/users/me"} {
		w := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/products", "garbage", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/cart-items", "garbage", nil).Code)
}

func TestLikedAddCreatedThenExisting(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.user(t, "alice", false)
	p := ts.product(t, 999, 10)

	w := ts.do(t, http.MethodPost, "/liked-items/add/", token, gin.H{"product": p.ID})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/liked-items/add/", token, gin.H{"product": p.ID})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/liked-items/add/", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/liked-items/add/", token, gin.H{"product": 12345})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVersusGroupedByCategory(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.user(t, "alice", false)
	p := ts.product(t, 999, 10)

	require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/versus-items/add/", token, gin.H{"product": p.ID}).Code)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/versus-items/add/", token, gin.H{"product": p.ID}).Code)

	env := decode(t, ts.do(t, http.MethodGet, "/versus-items", token, nil))
	var groups map[string][]models.VersusItem
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups["Phones"], 1)
	assert.Equal(t, p.ID, groups["Phones"][0].ProductID)
}

func TestPlaceOrderFromCart(t *testing.T) {
	ts := newTestServer(t)
	alice, token := ts.user(t, "alice", false)
	p := ts.product(t, 999, 15)

	w := ts.do(t, http.MethodPost, "/cart-items", token, gin.H{"product": p.ID, "amount": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var line struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &line))

	w = ts.do(t, http.MethodPost, "/orders/create", token, gin.H{
		"cart_item_ids": []int64{line.ID},
		"first_name":    "Alice",
		"last_name":     "Liddell",
		"phone_number":  "555",
		"address":       "1 Rabbit Hole",
		"payment_type":  "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order struct {
		ID         int64           `json:"id"`
		User       int64           `json:"user"`
		TotalPrice decimal.Decimal `json:"total_price"`
		Status     string          `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
	assert.Equal(t, alice, order.User)
	assert.True(t, decimal.NewFromInt(30).Equal(order.TotalPrice), order.TotalPrice.String())
	assert.Equal(t, string(models.OrderStatusCollecting), order.Status)

	env := decode(t, ts.do(t, http.MethodGet, "/cart-items", token, nil))
	assert.Equal(t, 0, env.Meta.Pagination.TotalItems)

	// Nothing left to convert.
	w = ts.do(t, http.MethodPost, "/orders/create", token, gin.H{
		"cart_item_ids": []int64{line.ID},
		"first_name":    "Alice", "last_name": "Liddell", "phone_number": "555",
		"address": "1 Rabbit Hole", "payment_type": "cash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderAccessRules(t *testing.T) {
	ts := newTestServer(t)
	_, aliceToken := ts.user(t, "alice", false)
	_, bobToken := ts.user(t, "bob", false)
	_, adminToken := ts.user(t, "root", true)
	p := ts.product(t, 999, 5)

	w := ts.do(t, http.MethodPost, "/cart-items", aliceToken, gin.H{"product": p.ID, "amount": 1})
	var line struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &line))
	w = ts.do(t, http.MethodPost, "/orders/create", aliceToken, gin.H{
		"cart_item_ids": []int64{line.ID},
		"first_name":    "Alice", "last_name": "Liddell", "phone_number": "555",
		"address": "1 Rabbit Hole", "payment_type": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var order struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &order))
	path := "/orders/" + jsonID(order.ID)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, path, aliceToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, path, bobToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, path, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/orders/424242", aliceToken, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/orders/abc", aliceToken, nil).Code)

	// Status is admin-only, and the owner cannot move it.
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPut, path+"/status", aliceToken, gin.H{"status": "delivered"}).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodPut, path+"/status", adminToken, gin.H{"status": "delivered"}).Code)

	env := decode(t, ts.do(t, http.MethodGet, "/orders", bobToken, nil))
	assert.Equal(t, 0, env.Meta.Pagination.TotalItems)
}

func TestCatalogWritesRequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.user(t, "alice", false)
	_, adminToken := ts.user(t, "root", true)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/brands", "", gin.H{"name": "Acme"}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/brands", token, gin.H{"name": "Acme"}).Code)
	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/brands", adminToken, gin.H{"name": "Acme"}).Code)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/users/register", "", gin.H{"username": "carol", "password": "correct horse"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "correct horse")

	w = ts.do(t, http.MethodPost, "/token/", "", gin.H{"username": "carol", "password": "correct horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &pair))
	require.NotEmpty(t, pair.Access)

	w = ts.do(t, http.MethodGet, "/users/me", pair.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/token/refresh/", "", gin.H{"refresh": pair.Refresh})
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/token/", "", gin.H{"username": "carol", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadsDisabledWithoutStorage(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.user(t, "alice", false)
	w := ts.do(t, http.MethodPost, "/uploads/presign", token, gin.H{"kind": "message-file", "filename": "a.pdf", "content_type": "application/pdf"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &body))
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "disabled", body["redis"])

	ts.dbDown = true
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(t, http.MethodGet, "/health", "", nil).Code)
}

func TestInvalidQueryID(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/products?brand=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_QUERY", decode(t, w).Error.Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
