package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/google/uuid"
)

// SandboxProvider issues QR-style payment intents without talking to any
// gateway. The QR payload encodes the payment id; posting it back to the
// simulated webhook completes the payment. Used in non-production
// environments and by the staff simulate-payment affordance.
type SandboxProvider struct {
	baseUrl string
	ttl     time.Duration
}

func NewSandboxProvider(baseUrl string, ttl time.Duration) *SandboxProvider {
	return &SandboxProvider{
		baseUrl: baseUrl,
		ttl:     ttl,
	}
}

func (p *SandboxProvider) CreatePayment(ctx context.Context, order *domain.Order, customerEmail string) (*domain.PaymentIntent, error) {
	id := uuid.New().String()
	payload := fmt.Sprintf("cinetick:payment:%s:order:%s", id, order.ID)
	qr := base64.StdEncoding.EncodeToString([]byte(payload))

	return &domain.PaymentIntent{
		ID:          id,
		ProviderRef: "sandbox-" + id,
		QrCode:      qr,
		QrCodeUrl:   fmt.Sprintf("%s/payments/qr/%s.png", p.baseUrl, id),
		ExpiresAt:   time.Now().Add(p.ttl),
	}, nil
}
