package handlers

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "numa/internal/log"
	"numa/internal/services"
	"numa/internal/shopier"
	"numa/internal/validate"
)

type PaymentHandler struct {
	Checkout *services.CheckoutService
	Payments *services.PaymentService
	Settings *services.SettingsService
	Views    fiber.Views
	SiteURL  string
}

// ANY /api/create-payment
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"message": "Method not allowed"})
	}
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Geçersiz istek"})
	}

	co, err := h.Checkout.Begin(req)
	if err != nil {
		code := statusOf(err)
		if code == fiber.StatusBadRequest {
			applog.Info(c, "checkout.reject", map[string]any{"reason": err.Error()})
			return c.Status(code).JSON(fiber.Map{"message": messageOf(code, err)})
		}
		applog.Error(c, "checkout.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Ödeme başlatılamadı, lütfen tekrar deneyin"})
	}

	var buf bytes.Buffer
	if err := h.Views.Render(&buf, "payment_form", co.Form); err != nil {
		applog.Error(c, "checkout.render.fail", err, map[string]any{"order_id": co.OrderID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Ödeme başlatılamadı, lütfen tekrar deneyin"})
	}

	applog.Audit(c, "checkout.begin", map[string]any{
		"order_id":     co.OrderID,
		"lines":        len(co.Lines),
		"server_total": co.Discount.FinalTotal,
		"client_total": req.TotalAmount,
		"discount":     co.Discount.DiscountAmount,
		"mismatch":     co.Discount.FinalTotal != req.TotalAmount,
	})
	return c.JSON(fiber.Map{
		"html":     buf.String(),
		"orderId":  co.OrderID,
		"total":    co.Discount.FinalTotal,
		"discount": co.Discount,
	})
}

// ANY /api/shopier-callback: form or JSON body from the gateway
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
	}
	var cb shopier.Callback
	if err := c.BodyParser(&cb); err != nil {
		applog.Security(c, "payment.callback.malformed", nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	rec, status, err := h.Payments.HandleCallback(cb)
	switch {
	case errors.Is(err, shopier.ErrUnknownStatus):
		applog.Security(c, "payment.callback.unknown_status", map[string]any{"order_id": cb.PlatformOrderID, "status": cb.PaymentStatus})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown payment status"})
	case err != nil:
		applog.Security(c, "payment.callback.bad_signature", map[string]any{"order_id": cb.PlatformOrderID, "reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	applog.Audit(c, "payment.callback", map[string]any{
		"order_id": rec.OrderID, "status": rec.Status, "amount": rec.Amount, "test_mode": rec.TestMode,
	})
	resp := fiber.Map{
		"success": status == shopier.StatusSuccess,
		"message": status.Message(),
		"orderId": rec.OrderID,
	}
	if status == shopier.StatusSuccess {
		resp["amount"] = cb.TotalOrderValue
		resp["currency"] = cb.Currency
	}
	return c.JSON(resp)
}

// Result renders the page the gateway sends the buyer back to.
func (h *PaymentHandler) Result(success bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderID := c.FormValue("platform_order_id")
		if orderID == "" {
			orderID = c.Query("orderId")
		}
		if _, ok := validate.ID(orderID); !ok {
			orderID = ""
		}
		site := "NUMA Parfüm"
		if st, _, err := h.Settings.Get(); err == nil && st.SiteName != "" {
			site = st.SiteName
		}
		data := fiber.Map{
			"SiteName": site,
			"OrderID":  orderID,
			"HomeURL":  h.SiteURL + "/",
			"Title":    "Ödeme başarısız",
			"Message":  "Ödemeniz tamamlanamadı. Sepetiniz korunuyor, tekrar deneyebilirsiniz.",
		}
		code := fiber.StatusOK
		if success {
			data["Title"] = "Teşekkürler"
			data["Message"] = "Siparişiniz alındı. Ödeme onayı e-posta ile gönderilecek."
		}
		return c.Status(code).Render("payment_result", data)
	}
}
