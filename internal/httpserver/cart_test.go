package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kultmet/grocery-store/internal/models"
	"github.com/kultmet/grocery-store/internal/repo"
	"github.com/kultmet/grocery-store/internal/service"
	"github.com/kultmet/grocery-store/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	E   *echo.Echo
	Svc *service.CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.CartEntry{},
	))

	svc := &service.CartService{Repo: &repo.GormRepo{DB: db}}

	e := echo.New()
	Register(e, &Deps{
		CartHandler: &CartHTTP{Svc: svc},
		JWTSecret:   testSecret,
	})

	return &testEnv{E: e, Svc: svc}
}

func (env *testEnv) seedWidget(t *testing.T) *models.Product {
	t.Helper()

	category := models.Category{Name: "tools", Slug: "tools"}
	require.NoError(t, env.Svc.Repo.DB.Create(&category).Error)
	sub := models.SubCategory{Name: "hand tools", Slug: "hand-tools", CategoryID: category.ID}
	require.NoError(t, env.Svc.Repo.DB.Create(&sub).Error)

	product := models.Product{
		Name:          "widget",
		Slug:          "widget",
		CategoryID:    category.ID,
		SubCategoryID: sub.ID,
		Price:         decimal.RequireFromString("9.99"),
	}
	require.NoError(t, env.Svc.Repo.DB.Create(&product).Error)
	return &product
}

func accessToken(t *testing.T, buyerID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": buyerID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func TestCreateEntryHandler(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedWidget(t)
	buyer := uuid.New()
	token := accessToken(t, buyer)

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.CartEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, buyer, resp.BuyerID)
	require.Equal(t, product.ID, resp.ProductID)
	require.Equal(t, uint(3), resp.Quantity)
}

func TestCreateEntryHandler_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", "", transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEntryHandler_Conflict(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 5})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateEntryHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 10001})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEntryHandler_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/gizmo/cart", token, transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEntryHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CartEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint(5), resp.Quantity)
}

func TestUpdateEntryHandler_MissingEntry(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPatch, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 5})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntryHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/products/widget/cart", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/products/widget/cart", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSnapshotHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot service.CartSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Lines, 1)
	require.Equal(t, uint(3), snapshot.TotalQuantity)
	require.True(t, snapshot.TotalPrice.Equal(decimal.RequireFromString("29.97")), "got %s", snapshot.TotalPrice)
}

func TestGetSnapshotHandler_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot service.CartSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	require.Equal(t, uint(0), snapshot.TotalQuantity)
	require.True(t, snapshot.TotalPrice.Equal(decimal.Zero))
}

func TestClearCartHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)
	token := accessToken(t, uuid.New())

	rec := env.do(t, http.MethodPost, "/api/v1/products/widget/cart", token, transport.EditCartRequest{Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.ClearCartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 1, resp.Removed)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 0, resp.Removed)
}

func TestExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedWidget(t)

	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
