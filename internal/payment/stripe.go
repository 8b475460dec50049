package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeProvider opens a hosted Stripe checkout session for an order. Ticket
// and product lines map to checkout line items; the customer completes the
// payment on the redirect URL and the webhook flips the order to PAID.
type StripeProvider struct {
	failureUrl string
	successUrl string
}

func NewStripeProvider(failureUrl, successUrl string) *StripeProvider {
	return &StripeProvider{
		failureUrl: failureUrl,
		successUrl: successUrl,
	}
}

func (s *StripeProvider) CreatePayment(ctx context.Context, order *domain.Order, customerEmail string) (*domain.PaymentIntent, error) {
	var lineItems []*stripe.CheckoutSessionLineItemParams

	for _, item := range order.Items {
		priceCents := item.UnitPrice.Mul(decimal.NewFromInt(100)).IntPart()

		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(priceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(lineItemName(item)),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		}

		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		Metadata: map[string]string{
			"order_id": order.ID,
			"channel":  string(order.Channel),
		},
	}

	if customerEmail != "" {
		params.CustomerEmail = &customerEmail
	}

	checkoutSession, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentIntent{
		ID:          checkoutSession.ID,
		ProviderRef: checkoutSession.ID,
		RedirectUrl: checkoutSession.URL,
		ExpiresAt:   time.Unix(checkoutSession.ExpiresAt, 0),
	}, nil
}

func lineItemName(item domain.OrderItem) string {
	if item.Type == domain.OrderItemTicket && item.Row != nil && item.SeatNumber != nil {
		return fmt.Sprintf("Ticket - Row %s Seat %d", *item.Row, *item.SeatNumber)
	}

	if item.ProductID != nil {
		return fmt.Sprintf("Concession #%d", *item.ProductID)
	}

	return "Order item"
}
