package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vibecommerce/internal/domain"
	"vibecommerce/internal/repos"
)

// Malformed inputs are rejected before they reach the store.
func TestValidationBadInputs(t *testing.T) {
	app, db := newTestApp(t, testConfig())
	ps, err := repos.NewProductRepo(db).List(context.Background(), repos.ProductFilter{})
	if err != nil || len(ps) == 0 {
		t.Fatalf("list products: %v", err)
	}
	pid := ps[0].ID

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		err    string
	}{
		{"cart add missing qty", "POST", "/api/cart", map[string]any{"productId": pid}, 400, "Product ID and quantity are required"},
		{"cart add missing product", "POST", "/api/cart", map[string]any{"qty": 1}, 400, "Product ID and quantity are required"},
		{"cart add negative qty", "POST", "/api/cart", map[string]any{"productId": pid, "qty": -1}, 400, "Quantity must be at least 1"},
		{"cart add fractional qty", "POST", "/api/cart", map[string]any{"productId": pid, "qty": 1.5}, 400, "Quantity must be at least 1"},
		{"cart add unknown product", "POST", "/api/cart", map[string]any{"productId": repos.NewID(), "qty": 1}, 404, "Product not found"},
		{"cart add malformed json", "POST", "/api/cart", `{"productId":`, 400, "Invalid request body"},
		{"cart update bad id", "PUT", "/api/cart/xyz", map[string]any{"qty": 2}, 404, "Cart item not found"},
		{"checkout negative qty", "POST", "/api/checkout", `{"cartItems":[{"price":100,"qty":-2}],"customerInfo":{"name":"A","email":"a@b.co"}}`, 400, "Quantity must be a positive whole number"},
		{"checkout items not array", "POST", "/api/checkout", `{"cartItems":{"price":100},"customerInfo":{"name":"A","email":"a@b.co"}}`, 400, "Cart items are required"},
		{"register bad email", "POST", "/api/auth/register", map[string]string{"name": "A", "email": "nope", "password": "secret1"}, 400, "Please provide a valid email address"},
		{"register short password", "POST", "/api/auth/register", map[string]string{"name": "A", "email": "a@b.co", "password": "123"}, 400, "Password must be at least 6 characters long"},
		{"register password too long", "POST", "/api/auth/register", map[string]string{"name": "A", "email": "a@b.co", "password": strings.Repeat("a", 80)}, 400, "Password must be at most 72 bytes"},
		{"checkout huge qty", "POST", "/api/checkout", `{"cartItems":[{"price":1000,"qty":1e19}],"customerInfo":{"name":"A","email":"a@b.co"}}`, 400, "Quantity must be a positive whole number"},
		{"checkout huge price", "POST", "/api/checkout", `{"cartItems":[{"productId":{"price":1e19},"qty":1}],"customerInfo":{"name":"A","email":"a@b.co"}}`, 400, "Price is out of range"},
		{"order huge subtotal", "POST", "/api/orders", `{"userId":"u1","userEmail":"a@b.co","userName":"A","items":[1],"subtotal":1e19,"total":1}`, 400, "Order amounts are out of range"},
		{"search bad characters", "GET", "/api/products?q=%3Cscript%3E", nil, 400, "Invalid search query"},
	}
	for _, tc := range cases {
		status, res := call(t, app, tc.method, tc.path, tc.body, "")
		if status != tc.status || res.Error != tc.err {
			t.Errorf("%s: got %d %q, want %d %q", tc.name, status, res.Error, tc.status, tc.err)
		}
		if res.Success {
			t.Errorf("%s: success=true on error", tc.name)
		}
	}
}

// Templates auto-escape untrusted text.
func TestTemplateAutoEscape(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	_, res := call(t, app, http.MethodPost, "/api/orders", map[string]any{
		"userId": "u1", "userEmail": "a@b.co", "userName": "<script>alert(1)</script>",
		"items":    []map[string]any{{"name": "<b>x</b>", "price": 100, "qty": 1}},
		"subtotal": 100, "total": 100,
	}, "")
	o := decode[domain.Order](t, res.Data)

	resp, err := app.Test(httptest.NewRequest("GET", "/orders/"+o.ID+"/receipt", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if strings.Contains(s, "<script>alert(1)</script>") || strings.Contains(s, "<b>x</b>") {
		t.Fatalf("untrusted text rendered raw: %s", s)
	}
	if !strings.Contains(s, "&lt;script&gt;") {
		t.Fatalf("escaped name missing: %s", s)
	}
}

func TestReceiptUnknownOrder(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	resp, err := app.Test(httptest.NewRequest("GET", "/orders/"+repos.NewID()+"/receipt", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Order not found") {
		t.Fatalf("body=%s", body)
	}
}
