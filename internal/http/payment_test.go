package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"numa/internal/repos"
	"numa/internal/shopier"
)

func checkoutBody(items []map[string]any) map[string]any {
	return map[string]any{
		"cartItems": items,
		"buyerInfo": map[string]any{
			"name":    "Ayşe Nur Yılmaz",
			"email":   "ayse@example.com",
			"phone":   "0555 123 45 67",
			"address": "Moda Cad. No:1 Kadıköy",
		},
		"totalAmount": 1.0,
	}
}

func line(id string, price float64, qty int) map[string]any {
	return map[string]any{"product": map[string]any{"id": id, "name": "x", "price": price}, "quantity": qty}
}

func TestCreatePayment_MethodNotAllowed(t *testing.T) {
	ta := newTestApp(t, nil)
	resp, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/create-payment", nil))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", resp.StatusCode)
	}
	if body["message"] == nil {
		t.Fatalf("want message field, got %v", body)
	}
}

func TestCreatePayment_BadRequests(t *testing.T) {
	ta := newTestApp(t, nil)

	cases := map[string]map[string]any{
		"empty cart":      checkoutBody(nil),
		"unknown product": checkoutBody([]map[string]any{line("nope", 1, 1)}),
		"out of stock":    checkoutBody([]map[string]any{line("numa-003", 690, 1)}),
		"bad email": func() map[string]any {
			b := checkoutBody([]map[string]any{line("numa-001", 850, 1)})
			b["buyerInfo"].(map[string]any)["email"] = "not-an-email"
			return b
		}(),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, out := ta.do(t, jsonReq(http.MethodPost, "/api/create-payment", body))
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("want 400, got %d (%v)", resp.StatusCode, out)
			}
			if out["message"] == nil {
				t.Fatalf("want message, got %v", out)
			}
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/create-payment", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", "application/json")
	if resp, _ := ta.do(t, req); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body: want 400, got %d", resp.StatusCode)
	}
}

func TestCreatePayment_RepricesAndReturnsForm(t *testing.T) {
	ta := newTestApp(t, nil)

	// client claims a price of 1; the catalog price is 850
	var resp *http.Response
	var out map[string]any
	logs := captureLogs(t, func() {
		resp, out = ta.do(t, jsonReq(http.MethodPost, "/api/create-payment",
			checkoutBody([]map[string]any{line("numa-001", 1, 2)})))
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d (%v)", resp.StatusCode, out)
	}
	html, _ := out["html"].(string)
	for _, want := range []string{
		`action="https://gw.test/pay"`,
		`name="total_order_value" value="1700.00"`,
		`name="buyer_name" value="Ayşe Nur"`,
		`name="buyer_surname" value="Yılmaz"`,
		`name="product_name" value="NUMA No.1 Rose Oud x2"`,
		`name="signature"`,
		"submit()",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("form missing %q:\n%s", want, html)
		}
	}
	orderID, _ := out["orderId"].(string)
	if !strings.HasPrefix(orderID, "NUMA_") {
		t.Fatalf("unexpected order id %q", orderID)
	}

	e, ok := findLog(logs, "checkout.begin")
	if !ok {
		t.Fatal("checkout.begin audit log missing")
	}
	if e.Fields["mismatch"] != true {
		t.Fatalf("client/server mismatch not flagged: %v", e.Fields)
	}

	// no order row before the gateway calls back
	if _, err := repos.NewOrderRepo(ta.db).Get(orderID); err != repos.ErrNotFound {
		t.Fatalf("order must not be stored before callback, err=%v", err)
	}
}

func callbackForm(orderID, status, amount string) url.Values {
	v := url.Values{}
	v.Set("platform_order_id", orderID)
	v.Set("payment_status", status)
	v.Set("total_order_value", amount)
	v.Set("currency", "TRY")
	v.Set("random_nr", "abc")
	v.Set("installment", "1")
	v.Set("signature", shopier.CallbackSignature(shopierKey, shopierIndex, orderID, amount, "TRY", "abc", shopierSec))
	return v
}

func postForm(target string, v url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestShopierCallback_Success(t *testing.T) {
	ta := newTestApp(t, nil)
	resp, out := ta.do(t, postForm("/api/shopier-callback", callbackForm("NUMA_1", "1", "100.00")))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d (%v)", resp.StatusCode, out)
	}
	if out["success"] != true || out["orderId"] != "NUMA_1" || out["amount"] != "100.00" || out["currency"] != "TRY" {
		t.Fatalf("unexpected body %v", out)
	}
	rec, err := repos.NewOrderRepo(ta.db).Get("NUMA_1")
	if err != nil {
		t.Fatalf("order not recorded: %v", err)
	}
	if rec.Status != "success" || rec.Amount != 100 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestShopierCallback_FailedAndPending(t *testing.T) {
	ta := newTestApp(t, nil)
	for status, want := range map[string]string{"0": "failed", "2": "pending"} {
		resp, out := ta.do(t, postForm("/api/shopier-callback", callbackForm("NUMA_2", status, "50.00")))
		if resp.StatusCode != http.StatusOK || out["success"] != false {
			t.Fatalf("status %s: got %d %v", status, resp.StatusCode, out)
		}
		rec, _ := repos.NewOrderRepo(ta.db).Get("NUMA_2")
		if rec.Status != want {
			t.Fatalf("status %s: recorded %q", status, rec.Status)
		}
	}
}

func TestShopierCallback_Rejects(t *testing.T) {
	ta := newTestApp(t, nil)

	forged := callbackForm("NUMA_3", "1", "100.00")
	forged.Set("total_order_value", "1.00")
	logs := captureLogs(t, func() {
		resp, out := ta.do(t, postForm("/api/shopier-callback", forged))
		if resp.StatusCode != http.StatusBadRequest || out["error"] == nil {
			t.Fatalf("forged: got %d %v", resp.StatusCode, out)
		}
	})
	if _, ok := findLog(logs, "payment.callback.bad_signature"); !ok {
		t.Fatal("bad signature not logged")
	}

	unknown := callbackForm("NUMA_4", "7", "100.00")
	resp, out := ta.do(t, postForm("/api/shopier-callback", unknown))
	if resp.StatusCode != http.StatusBadRequest || out["error"] != "Unknown payment status" {
		t.Fatalf("unknown status: got %d %v", resp.StatusCode, out)
	}

	missing := callbackForm("NUMA_5", "1", "100.00")
	missing.Del("random_nr")
	if resp, _ := ta.do(t, postForm("/api/shopier-callback", missing)); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing field: want 400, got %d", resp.StatusCode)
	}

	if _, err := repos.NewOrderRepo(ta.db).Get("NUMA_3"); err != repos.ErrNotFound {
		t.Fatal("rejected callbacks must not be recorded")
	}
}

func TestShopierCallback_JSONBody(t *testing.T) {
	ta := newTestApp(t, nil)
	v := callbackForm("NUMA_6", "1", "10.00")
	body := map[string]string{}
	for k := range v {
		body[k] = v.Get(k)
	}
	resp, out := ta.do(t, jsonReq(http.MethodPost, "/api/shopier-callback", body))
	if resp.StatusCode != http.StatusOK || out["success"] != true {
		t.Fatalf("json callback: got %d %v", resp.StatusCode, out)
	}
}

func TestPaymentResultPages(t *testing.T) {
	ta := newTestApp(t, nil)
	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/payment/success?orderId=NUMA_9", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	buf := string(raw)
	if !strings.Contains(buf, "NUMA_9") || !strings.Contains(buf, "Teşekkürler") {
		t.Fatalf("unexpected page: %s", buf)
	}

	resp, _ = ta.app.Test(postForm("/payment/fail", url.Values{"platform_order_id": {"NUMA_9"}}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fail page: want 200, got %d", resp.StatusCode)
	}
}
