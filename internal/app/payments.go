package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/domain"
)

// PaymentWebhook receives the payment provider's terminal verdict for a
// payment. The endpoint is idempotent: replaying a verdict for a settled
// payment changes nothing and still answers 200.
func (app *Application) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.PaymentWebhookRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	order, err := app.applyPaymentEvent(r.Context(), logger, input.PaymentId, domain.PaymentStatus(input.Status))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrOrderNotPending):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.OrderResponse{Order: toApiOrder(order)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// applyPaymentEvent settles a payment and its order: approved payments mark
// the order paid and trigger the confirmation mail, everything else cancels
// the order and frees its seats. Settled payments are left untouched.
func (app *Application) applyPaymentEvent(
	ctx context.Context,
	logger *slog.Logger,
	paymentID string,
	status domain.PaymentStatus) (*domain.Order, error) {

	payment, err := app.paymentRepo.GetById(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	order, err := app.orderRepo.GetById(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	if payment.Status != domain.PaymentStatusPending {
		logger.Warn("ignoring payment event for settled payment",
			"payment_id", paymentID,
			"current_status", string(payment.Status),
			"event_status", string(status),
		)
		return order, nil
	}

	if order.Status != domain.OrderStatusPending {
		logger.Warn("ignoring payment event for settled order",
			"order_id", order.ID,
			"current_status", string(order.Status),
		)
		return order, domain.ErrOrderNotPending
	}

	errMsg := ""
	if status == domain.PaymentStatusRejected {
		errMsg = "rejected by provider"
	}

	err = app.paymentRepo.UpdateStatus(ctx, paymentID, status, errMsg)
	if err != nil {
		return nil, err
	}

	switch status {
	case domain.PaymentStatusApproved:
		err = app.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid)
		if err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatusPaid

		app.sendOrderConfirmation(ctx, logger, order)

	default:
		err = app.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled)
		if err != nil {
			return nil, err
		}
		order.Status = domain.OrderStatusCancelled

		app.releaseOrderSeats(ctx, order)
	}

	for _, showtimeID := range ticketShowtimes(order.Items) {
		app.publishSeatEvent(ctx, showtimeID)
	}

	app.metrics.paymentEvents.WithLabelValues(string(status)).Inc()
	logger.Info("payment settled", "payment_id", paymentID, "order_id", order.ID, "status", string(status))

	return order, nil
}

func (app *Application) sendOrderConfirmation(ctx context.Context, logger *slog.Logger, order *domain.Order) {
	if order.UserID == nil {
		return
	}

	user, err := app.userRepo.GetById(ctx, *order.UserID)
	if err != nil {
		logger.Error("failed to look up user for order confirmation", "order_id", order.ID, "error", err)
		return
	}

	go func() {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic occurred during sending order confirmation mail", "panic", err)
			}
		}()

		data := map[string]any{
			"orderID":   order.ID,
			"total":     order.Total.StringFixed(2),
			"itemCount": len(order.Items),
		}

		err := app.mailer.Send(user.Email, "order_confirmation.tmpl", data)
		if err != nil {
			logger.Error("failed to send order confirmation mail", "order_id", order.ID, "error", err)
		}
	}()
}

// handleOrderEvent consumes one payment event from the message broker. The
// body carries the same shape as the webhook. A nil return acks the message;
// malformed payloads are acked too, since redelivery cannot fix them.
func (app *Application) handleOrderEvent(body []byte) error {
	var event api.PaymentWebhookRequest

	err := json.Unmarshal(body, &event)
	if err != nil {
		app.logger.Error("discarding malformed order event", "error", err)
		return nil
	}

	err = app.validator.Struct(event)
	if err != nil {
		app.logger.Error("discarding invalid order event", "error", err)
		return nil
	}

	_, err = app.applyPaymentEvent(context.Background(), app.logger, event.PaymentId, domain.PaymentStatus(event.Status))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrOrderNotPending) {
			app.logger.Warn("discarding unprocessable order event", "payment_id", event.PaymentId, "error", err)
			return nil
		}

		return fmt.Errorf("failed to apply order event: %w", err)
	}

	return nil
}
