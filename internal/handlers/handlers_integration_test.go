package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/internal/testutil"
	"catalog/pkg/clock"
)

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

// setupApp builds the full app on a private in-memory SQLite database.
func setupApp(t *testing.T, cfg config.Config, c clock.Clock) *testApp {
	t.Helper()
	if cfg.JWTTTL == 0 {
		cfg.JWTTTL = time.Hour
	}
	db := testutil.NewDB(t)
	a, _, err := app.NewApp(cfg, db, app.Deps{Clock: c, DisableRequestLog: true})
	require.NoError(t, err)
	return &testApp{app: a, db: db}
}

func newCatalog(t *testing.T) *testApp {
	return setupApp(t, config.Config{}, testutil.NewClock())
}

func (ta *testApp) do(t *testing.T, method, path, body string, header map[string]string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return resp.StatusCode, out
}

func (ta *testApp) send(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	return ta.do(t, method, path, body, nil)
}

func (ta *testApp) results(t *testing.T, path string) []interface{} {
	t.Helper()
	code, body := ta.send(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, code)
	results, ok := body["results"].([]interface{})
	require.True(t, ok, "results must be a list: %v", body)
	return results
}

func (ta *testApp) createBrand(t *testing.T) uint {
	t.Helper()
	return testutil.SeedBrand(t, ta.db, "Acme", "US").ID
}

func envelope(t *testing.T, body map[string]interface{}, status, msg string) {
	t.Helper()
	assert.Equal(t, status, body["status"])
	assert.Equal(t, msg, body["msg"])
}

func TestCreateAndListProducts(t *testing.T) {
	ta := newCatalog(t)
	brandID := ta.createBrand(t)

	code, body := ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Widget","rating":9.5,"brand_id":%d,"items_in_stock":10,"categories":["Tools"]}`, brandID))
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "product received")

	code, body = ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Gadget","rating":5,"featured":false,"brand_id":%d,"items_in_stock":3,"categories":["Tools","New"],"receipt_date":"2026-01-10 08:30:00"}`, brandID))
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "product received")

	products := ta.results(t, "/products")
	require.Len(t, products, 2)

	widget := products[0].(map[string]interface{})
	assert.Equal(t, "Widget", widget["name"])
	assert.Equal(t, true, widget["featured"])
	assert.Equal(t, 9.5, widget["rating"])
	assert.Equal(t, float64(10), widget["items_in_stock"])
	assert.Nil(t, widget["expiration_date"])
	assert.Nil(t, widget["receipt_date"])
	assert.Equal(t, "2026-01-15 12:00:00", widget["created_at"])
	assert.Equal(t, map[string]interface{}{"id": float64(brandID), "name": "Acme", "country_code": "US"}, widget["brand"])
	assert.Equal(t, []interface{}{map[string]interface{}{"id": float64(1), "name": "Tools"}}, widget["categories"])

	gadget := products[1].(map[string]interface{})
	assert.Equal(t, false, gadget["featured"])
	assert.Equal(t, "2026-01-10 08:30:00", gadget["receipt_date"])
	assert.Len(t, gadget["categories"], 2)

	categories := ta.results(t, "/categories")
	require.Len(t, categories, 2)
	tools := categories[0].(map[string]interface{})
	assert.Equal(t, "Tools", tools["name"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, tools["products"])
}

func TestCreateProduct_PayloadErrors(t *testing.T) {
	ta := newCatalog(t)
	brandID := ta.createBrand(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{
			name: "invalid json",
			body: `{"name":`,
			msg:  "invalid JSON payload",
		},
		{
			name: "missing categories",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"items_in_stock":1}`, brandID),
			msg:  "field categories has not been found, but is required",
		},
		{
			name: "empty categories",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"items_in_stock":1,"categories":[]}`, brandID),
			msg:  "categories number must be between 1 and 5",
		},
		{
			name: "six categories",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"items_in_stock":1,"categories":["a","b","c","d","e","f"]}`, brandID),
			msg:  "categories number must be between 1 and 5",
		},
		{
			name: "missing name",
			body: fmt.Sprintf(`{"rating":1,"brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID),
			msg:  "field name has not been found, but is required",
		},
		{
			name: "missing items_in_stock",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"categories":["Tools"]}`, brandID),
			msg:  "field items_in_stock has not been found, but is required",
		},
		{
			name: "rating is not a number",
			body: fmt.Sprintf(`{"name":"Widget","rating":"high","brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID),
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "category is not a string",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"items_in_stock":1,"categories":[7]}`, brandID),
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "bad date format",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"items_in_stock":1,"categories":["Tools"],"expiration_date":"2027-01-01"}`, brandID),
			msg:  "field expiration_date must match the format YYYY-MM-DD HH:MM:SS",
		},
		{
			name: "infinite rating",
			body: fmt.Sprintf(`{"name":"Widget","rating":"Infinity","brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID),
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "negative infinite rating",
			body: fmt.Sprintf(`{"name":"Widget","rating":"-Inf","brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID),
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "NaN rating",
			body: fmt.Sprintf(`{"name":"Widget","rating":"NaN","brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID),
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "stock beyond integer range",
			body: fmt.Sprintf(`{"name":"Widget","rating":1,"brand_id":%d,"items_in_stock":1e30,"categories":["Tools"]}`, brandID),
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "hexadecimal brand id",
			body: `{"name":"Widget","rating":1,"brand_id":"0x1","items_in_stock":1,"categories":["Tools"]}`,
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "negative brand id",
			body: `{"name":"Widget","rating":1,"brand_id":-1,"items_in_stock":1,"categories":["Tools"]}`,
			msg:  "type mismatch: check values of fields",
		},
		{
			name: "unknown brand",
			body: `{"name":"Widget","rating":1,"brand_id":999,"items_in_stock":1,"categories":["Tools"]}`,
			msg:  "brand with given id not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ta.send(t, http.MethodPost, "/create_product", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			envelope(t, body, "error", tt.msg)
		})
	}

	assert.Empty(t, ta.results(t, "/products"))
}

func TestCreateProduct_NumericStringsAreDecimal(t *testing.T) {
	ta := newCatalog(t)
	brandID := ta.createBrand(t)

	code, body := ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Widget","rating":"7.5","brand_id":"%d","items_in_stock":"010","categories":["Tools"]}`, brandID))
	require.Equal(t, http.StatusOK, code, "body: %v", body)

	products := ta.results(t, "/products")
	require.Len(t, products, 1)
	p := products[0].(map[string]interface{})
	assert.Equal(t, float64(10), p["items_in_stock"], "leading zeros do not switch to octal")
	assert.Equal(t, 7.5, p["rating"])
	assert.Equal(t, float64(brandID), p["brand"].(map[string]interface{})["id"])
}

func TestCreateProduct_ValidationErrors(t *testing.T) {
	ta := newCatalog(t)
	brandID := ta.createBrand(t)

	code, body := ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Milk","rating":1,"brand_id":%d,"items_in_stock":1,"categories":["Dairy"],"expiration_date":"2026-01-20 00:00:00"}`, brandID))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["errors"], "expiration_date")

	code, body = ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"","rating":1,"brand_id":%d,"items_in_stock":-1,"categories":["Dairy"]}`, brandID))
	assert.Equal(t, http.StatusBadRequest, code)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "items_in_stock")

	code, _ = ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Milk","rating":1,"brand_id":%d,"items_in_stock":1,"categories":["Dairy"],"expiration_date":"2026-03-01 00:00:00"}`, brandID))
	assert.Equal(t, http.StatusOK, code)
}

func TestUpdateProduct(t *testing.T) {
	ta := newCatalog(t)
	brandID := ta.createBrand(t)
	code, _ := ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Widget","rating":3,"brand_id":%d,"items_in_stock":10,"categories":["Tools"]}`, brandID))
	require.Equal(t, http.StatusOK, code)

	code, body := ta.send(t, http.MethodPut, "/update_product",
		`{"id":1,"name":"Widget Pro","rating":9,"categories":["Garden","Outdoor"]}`)
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "product updated")

	products := ta.results(t, "/products")
	require.Len(t, products, 1)
	p := products[0].(map[string]interface{})
	assert.Equal(t, "Widget Pro", p["name"])
	assert.Equal(t, true, p["featured"])
	assert.Equal(t, float64(10), p["items_in_stock"])
	categories := p["categories"].([]interface{})
	require.Len(t, categories, 2)
	assert.Equal(t, "Garden", categories[0].(map[string]interface{})["name"])

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":42,"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, code)
	envelope(t, body, "error", "no product found with given id")

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":0,"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, code)
	envelope(t, body, "error", "no product found with given id")

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":1,"rating":"Infinity"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "type mismatch: check values of fields")

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":1,"items_in_stock":"010"}`)
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "product updated")
	p = ta.results(t, "/products")[0].(map[string]interface{})
	assert.Equal(t, float64(10), p["items_in_stock"])
	assert.Equal(t, 9.0, p["rating"])

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"name":"No id"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "field id has not been found, but is required")

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":1,"items_in_stock":"many"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "type mismatch: check values of fields")

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":1,"brand":77}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "brand with given id not found")

	code, body = ta.send(t, http.MethodPut, "/update_product", `{"id":1,"categories":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "categories number must be between 1 and 5")
}

func TestDeleteProduct(t *testing.T) {
	ta := newCatalog(t)
	brandID := ta.createBrand(t)
	code, _ := ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Widget","rating":3,"brand_id":%d,"items_in_stock":10,"categories":["Tools","Garden"]}`, brandID))
	require.Equal(t, http.StatusOK, code)

	code, body := ta.send(t, http.MethodDelete, "/delete_product", `{"id":1}`)
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "product deleted, also 2 product_categories relations deleted")

	code, body = ta.send(t, http.MethodDelete, "/delete_product", `{"id":1}`)
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "warning", "0 products deleted, also 0 relations deleted")

	code, body = ta.send(t, http.MethodDelete, "/delete_product", `{"id":"one"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "type mismatch: check values of fields")

	assert.Empty(t, ta.results(t, "/products"))
	categories := ta.results(t, "/categories")
	require.Len(t, categories, 2)
	for _, c := range categories {
		assert.Empty(t, c.(map[string]interface{})["products"])
	}
}

func TestBrands(t *testing.T) {
	ta := newCatalog(t)

	code, body := ta.send(t, http.MethodPost, "/create_brand", `{"name":"Globex","country_code":"DE"}`)
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "brand created")
	assert.Equal(t, float64(1), body["id"])

	code, body = ta.send(t, http.MethodPost, "/create_brand", `{"name":"Globex","country_code":"DEU"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["errors"], "country_code")

	code, body = ta.send(t, http.MethodPost, "/create_brand", `{"name":"Globex"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	envelope(t, body, "error", "field country_code has not been found, but is required")

	brands := ta.results(t, "/brands")
	require.Len(t, brands, 1)
	assert.Equal(t, map[string]interface{}{"id": float64(1), "name": "Globex", "country_code": "DE"}, brands[0])
}

func TestHealth(t *testing.T) {
	ta := newCatalog(t)

	code, body := ta.send(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "up", body["database"])
}

func TestUnknownRoute(t *testing.T) {
	ta := newCatalog(t)

	code, body := ta.send(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", body["status"])
}

func TestAuthGuardsWrites(t *testing.T) {
	// Tokens are checked against the wall clock, so this app runs on it too.
	ta := setupApp(t, config.Config{AuthEnabled: true, JWTSecret: "test_jwt_secret"}, clock.New())
	brandID := ta.createBrand(t)
	createBody := fmt.Sprintf(`{"name":"Widget","rating":3,"brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID)

	code, body := ta.send(t, http.MethodPost, "/create_product", createBody)
	assert.Equal(t, http.StatusUnauthorized, code)
	envelope(t, body, "error", "authorization header is required")

	code, body = ta.do(t, http.MethodPost, "/create_product", createBody, map[string]string{"Authorization": "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, code)
	envelope(t, body, "error", "authorization header format must be 'Bearer <token>'")

	code, body = ta.do(t, http.MethodPost, "/create_product", createBody, map[string]string{"Authorization": "Bearer abc"})
	assert.Equal(t, http.StatusUnauthorized, code)
	envelope(t, body, "error", "invalid or expired token")

	code, body = ta.send(t, http.MethodPost, "/auth/register", `{"username":"alice","email":"alice@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, code)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	userID, ok := user["id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(userID)
	assert.NoError(t, err, "the server assigns the id")

	code, _ = ta.send(t, http.MethodPost, "/auth/register", `{"username":"alice","email":"other@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = ta.send(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = ta.send(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusOK, code)
	token, ok := body["token"].(string)
	require.True(t, ok)

	code, body = ta.do(t, http.MethodPost, "/create_product", createBody, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, code)
	envelope(t, body, "ok", "product received")

	// Reads stay public.
	assert.Len(t, ta.results(t, "/products"), 1)

	// Tokens stop working once their account is gone.
	require.NoError(t, ta.db.Unscoped().Where("id = ?", userID).Delete(&models.User{}).Error)
	code, body = ta.do(t, http.MethodPost, "/create_product", createBody, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, code)
	envelope(t, body, "error", "invalid or expired token")
}

func TestRegister_IgnoresServerOwnedFields(t *testing.T) {
	ta := newCatalog(t)

	code, body := ta.send(t, http.MethodPost, "/auth/register",
		`{"id":"chosen-by-client","username":"bob","email":"bob@example.com","password":"secret123","created_at":"2000-01-01T00:00:00Z"}`)
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	user := body["user"].(map[string]interface{})
	assert.NotEqual(t, "chosen-by-client", user["id"])

	var stored models.User
	require.NoError(t, ta.db.Where("username = ?", "bob").First(&stored).Error)
	assert.NotEqual(t, "chosen-by-client", stored.ID)
	assert.True(t, stored.CreatedAt.After(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))

	code, body = ta.send(t, http.MethodPost, "/auth/register", `{"username":"bo","email":"not-an-email","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestCreatedAtUsesClock(t *testing.T) {
	clk := testutil.NewClock()
	ta := setupApp(t, config.Config{}, clk)
	brandID := ta.createBrand(t)

	clk.Advance(36 * time.Hour)
	code, _ := ta.send(t, http.MethodPost, "/create_product", fmt.Sprintf(
		`{"name":"Widget","rating":3,"brand_id":%d,"items_in_stock":1,"categories":["Tools"]}`, brandID))
	require.Equal(t, http.StatusOK, code)

	var p models.Product
	require.NoError(t, ta.db.First(&p).Error)
	assert.True(t, testutil.Now.Add(36*time.Hour).Equal(p.CreatedAt))
}
