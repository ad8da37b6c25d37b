package services

import (
	"strconv"

	"numa/internal/domain"
	applog "numa/internal/log"
	"numa/internal/repos"
	"numa/internal/shopier"
)

// CallbackVerifier checks gateway notifications.
type CallbackVerifier interface {
	VerifyCallback(cb shopier.Callback) error
}

type PaymentService struct {
	Verifier CallbackVerifier
	Orders   *repos.OrderRepo
}

func NewPaymentService(v CallbackVerifier, orders *repos.OrderRepo) *PaymentService {
	return &PaymentService{Verifier: v, Orders: orders}
}

// HandleCallback verifies cb, maps its status and records it. Recording
// failures are logged only; the gateway must still get its answer.
func (s *PaymentService) HandleCallback(cb shopier.Callback) (domain.PaymentRecord, shopier.Status, error) {
	if err := s.Verifier.VerifyCallback(cb); err != nil {
		return domain.PaymentRecord{}, "", err
	}
	status, err := shopier.ParseStatus(cb.PaymentStatus)
	if err != nil {
		return domain.PaymentRecord{}, "", err
	}
	amount, _ := strconv.ParseFloat(cb.TotalOrderValue, 64)
	rec := domain.PaymentRecord{
		OrderID:     cb.PlatformOrderID,
		Status:      string(status),
		Amount:      amount,
		Currency:    cb.Currency,
		Installment: cb.Installment,
		TestMode:    cb.TestMode == "1" || cb.TestMode == "true",
	}
	if s.Orders != nil {
		if err := s.Orders.Record(rec); err != nil {
			applog.Error(nil, "payment.record.fail", err, map[string]any{"order_id": rec.OrderID})
		}
	}
	return rec, status, nil
}

func (s *PaymentService) Recent(limit int) ([]domain.PaymentRecord, error) {
	return s.Orders.ListLatest(limit)
}
