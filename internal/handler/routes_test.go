package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-pos-core/internal/event"
	"go-pos-core/internal/handler"
	"go-pos-core/internal/middleware"
	"go-pos-core/internal/model"
	"go-pos-core/internal/repository"
	"go-pos-core/internal/service"
	"go-pos-core/internal/testdb"
	"go-pos-core/pkg/credential"
	"go-pos-core/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type api struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testdb.Open(t)
	products := repository.NewProductRepo(db)
	accounts := repository.NewAccountRepo(db)
	sales := repository.NewSaleRepo(db)
	adjustments := repository.NewAdjustmentRepo(db)
	hasher := credential.NewBcrypt(bcrypt.MinCost)

	for _, u := range []struct {
		name string
		role model.Role
	}{{"admin", model.RoleAdmin}, {"staff", model.RoleStaff}} {
		hash, err := hasher.Hash("secret1")
		require.NoError(t, err)
		require.NoError(t, accounts.Create(&model.Account{Username: u.name, PasswordHash: hash, Role: u.role}))
	}

	authService := service.NewAuthService(accounts, hasher, jwt.NewManager("test-secret", time.Hour, "test"), nil)
	h := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Products:    handler.NewProductHandler(service.NewCatalogService(products, event.Nop, nil)),
		Sales:       handler.NewSaleHandler(service.NewSaleService(db, products, sales, accounts, event.Nop, nil), time.UTC),
		Adjustments: handler.NewAdjustmentHandler(service.NewAdjustmentService(db, products, adjustments, accounts, event.Nop, nil)),
		Reports:     handler.NewReportHandler(service.NewReportService(sales, products), time.UTC),
		Accounts:    handler.NewAccountHandler(service.NewAccountService(accounts, hasher, nil)),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler(nil)})
	handler.Register(app, h, middleware.RequireAuth(authService))
	return &api{t: t, app: app}
}

func (a *api) do(method, path, token string, body any) (*http.Response, []byte) {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, out
}

func (a *api) login(username string) string {
	a.t.Helper()
	resp, body := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": "secret1"})
	require.Equal(a.t, http.StatusOK, resp.StatusCode, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(body, &out))
	return out.Token
}

func TestSaleRoundTrip(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin")

	resp, body := a.do(http.MethodPost, "/api/v1/products", admin, map[string]any{
		"sku": "P0", "name": "Widget", "price": "45.00", "cost": "20.00", "stock_qty": 50, "reorder_level": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created struct {
		Data model.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = a.do(http.MethodPost, "/api/v1/sales", admin, map[string]any{
		"lines": []map[string]any{{"product_id": created.Data.ID, "quantity": 20, "unit_price": "45.00"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var committed struct {
		Data model.Sale `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &committed))
	assert.Equal(t, "900.00", committed.Data.TotalAmount.StringFixed(2))

	salePath := fmt.Sprintf("/api/v1/sales/%d", committed.Data.ID)
	resp, _ = a.do(http.MethodGet, salePath, admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = a.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.Data.ID), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p model.Product
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 30, p.StockQty)

	staff := a.login("staff")
	resp, _ = a.do(http.MethodPost, salePath+"/reverse", staff, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = a.do(http.MethodPost, salePath+"/reverse", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, _ = a.do(http.MethodGet, salePath, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = a.do(http.MethodPost, salePath+"/reverse", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorStatuses(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin")

	resp, _ := a.do(http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/v1/sales", admin, map[string]any{"lines": []any{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/v1/sales", admin, map[string]any{
		"lines": []map[string]any{{"product_id": 999, "quantity": 1, "unit_price": "1.00"}},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.do(http.MethodGet, "/api/v1/reports/summary?start=2024-06-02&end=2024-06-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutEndsSession(t *testing.T) {
	a := newAPI(t)
	token := a.login("staff")

	resp, _ := a.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSalesWorkbookDownload(t *testing.T) {
	a := newAPI(t)
	admin := a.login("admin")

	resp, body := a.do(http.MethodGet, "/api/v1/reports/sales.xlsx", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, []byte("PK"), body[:2])
}
