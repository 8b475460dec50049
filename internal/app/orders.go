package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cinetick/cinema-pos/api"
	"github.com/cinetick/cinema-pos/internal/auth"
	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	seatLockTTL     = 10 * time.Minute
	seatEventsTopic = "seat-events"

	orderSweepInterval = time.Minute
)

var lockSeatsScript = redis.NewScript(`
    -- KEYS = seat lock keys (e.g., seat_lock:123:A-1, seat_lock:123:A-2 etc.)
    -- ARGV = [sessionID, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already locked"} -- Return an error indicator
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

func (app *Application) LockSeats(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.LockSeatsRequest

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

	seats := dedupeSelectedSeats(toSelectedSeats(input.Seats))

	_, err = app.showtimeRepo.GetById(r.Context(), input.ShowtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	soldSeats, err := app.orderRepo.GetSeatsByShowtime(r.Context(), input.ShowtimeId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	sold := make(map[string]bool, len(soldSeats))
	for _, seat := range soldSeats {
		sold[seat.Key()] = true
	}

	for _, seat := range seats {
		if sold[seat.Key()] {
			logger.Warn("seat lock conflict: seat already sold", "showtime_id", input.ShowtimeId, "seat", seat.Key())
			app.metrics.lockConflicts.Inc()
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already reserved"))
			return
		}
	}

	sessionID := app.sessionManager.Token(r.Context())

	err = app.tryLockSeats(r.Context(), input.ShowtimeId, seats, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatAlreadyLocked):
			logger.Warn("seat lock conflict due to race condition: seat already locked", "showtime_id", input.ShowtimeId)
			app.metrics.lockConflicts.Inc()
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already reserved"))
		default:
			app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be acquired: %w", err))
		}

		return
	}

	app.metrics.seatsLocked.Add(float64(len(seats)))
	app.publishSeatEvent(r.Context(), input.ShowtimeId)

	expiresAt := time.Now().Add(seatLockTTL)
	holds := make([]domain.SeatHold, len(seats))
	for i, seat := range seats {
		holds[i] = domain.SeatHold{
			ID:          uuid.NewString(),
			ShowtimeID:  input.ShowtimeId,
			Row:         seat.Row,
			SeatNumber:  seat.SeatNumber,
			LockedUntil: expiresAt,
		}
	}

	resp := api.LockSeatsResponse{
		Locks:     holds,
		ExpiresAt: expiresAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// tryLockSeats acquires all seat locks atomically: either every requested
// seat gets a lock keyed by the caller's session, or none do. The lock set
// member registration rides in a pipeline afterwards; a pipeline failure
// rolls the locks back.
func (app *Application) tryLockSeats(ctx context.Context, showtimeID int, seats []domain.SelectedSeat, sessionID string) error {
	if app.redis == nil {
		return nil
	}

	keys := make([]string, len(seats))
	for i, seat := range seats {
		keys[i] = seatLockKey(showtimeID, seat.Key())
	}

	err := lockSeatsScript.Run(ctx, app.redis, keys, sessionID, int(seatLockTTL.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already locked") {
			return domain.ErrSeatAlreadyLocked
		}

		return err
	}

	members := make([]interface{}, len(seats))
	for i, seat := range seats {
		members[i] = seat.Key()
	}

	pipe := app.redis.TxPipeline()
	pipe.SAdd(ctx, seatSetKey(showtimeID), members...)

	_, err = pipe.Exec(ctx)
	if err != nil {
		app.releaseSeatLocks(ctx, showtimeID, seats)
		return err
	}

	return nil
}

func (app *Application) releaseSeatLocks(ctx context.Context, showtimeID int, seats []domain.SelectedSeat) {
	if app.redis == nil || len(seats) == 0 {
		return
	}

	lockKeys := make([]string, len(seats))
	members := make([]interface{}, len(seats))

	for i, seat := range seats {
		lockKeys[i] = seatLockKey(showtimeID, seat.Key())
		members[i] = seat.Key()
	}

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, lockKeys...)
	pipe.SRem(ctx, seatSetKey(showtimeID), members...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		app.logger.Error("failed to release seat locks", "error", err)
	}
}

func seatLockKey(showtimeID int, seatKey string) string {
	return fmt.Sprintf("seat_lock:%d:%s", showtimeID, seatKey)
}

func seatSetKey(showtimeID int) string {
	return fmt.Sprintf("seat_locks:%d", showtimeID)
}

func (app *Application) CreateOrder(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateOrderRequest

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

	channel := domain.OrderChannel(input.Channel)
	sessionID := app.sessionManager.Token(r.Context())

	items, err := app.buildOrderItems(r.Context(), input.Items)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.badRequestResponse(w, r, err)
		}
		return
	}

	if channel != domain.OrderChannelPos {
		err = app.verifySeatLockOwnership(r.Context(), items, sessionID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSeatLockExpired), errors.Is(err, domain.ErrSeatLockConflict):
				logger.Warn("order rejected: seat locks invalid", "error", err)
				app.editConflictResponseWithErr(w, r, err)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}
	}

	order := &domain.Order{
		ID:      uuid.NewString(),
		Channel: channel,
		Status:  domain.OrderStatusPending,
		Items:   items,
	}

	for _, item := range items {
		order.Total = order.Total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	customerEmail := ""
	if identity := app.contextIdentity(r); identity != nil {
		userID := identity.UserID
		order.UserID = &userID
		customerEmail = identity.Email
	}

	intent, err := app.paymentProvider.CreatePayment(r.Context(), order, customerEmail)
	if err != nil {
		app.serverErrorResponse(w, r, fmt.Errorf("payment couldn't be opened: %w", err))
		return
	}
	order.PaymentID = intent.ID

	err = app.orderRepo.Create(r.Context(), order)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	payment := &domain.Payment{
		ID:          intent.ID,
		OrderID:     order.ID,
		Amount:      order.Total,
		Currency:    "USD",
		Status:      domain.PaymentStatusPending,
		ProviderRef: intent.ProviderRef,
		QrCode:      intent.QrCode,
		QrCodeUrl:   intent.QrCodeUrl,
		ExpiresAt:   intent.ExpiresAt,
	}

	err = app.paymentRepo.Create(r.Context(), payment)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if channel == domain.OrderChannelWeb {
		app.checkoutStore.SetOrderID(r.Context(), sessionID, order.ID)
	}

	app.metrics.ordersCreated.WithLabelValues(string(channel)).Inc()

	for _, showtimeID := range ticketShowtimes(items) {
		app.publishSeatEvent(r.Context(), showtimeID)
	}

	resp := api.OrderResponse{
		Order:   toApiOrder(order),
		Payment: toApiPaymentInfo(payment),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// buildOrderItems turns the wire items into priced domain items. Unit prices
// are always resolved server-side: tickets through the pricing rules on the
// showtime's base price, products from the catalog.
func (app *Application) buildOrderItems(ctx context.Context, items []api.OrderItemRequest) ([]domain.OrderItem, error) {
	out := make([]domain.OrderItem, 0, len(items))
	showtimes := make(map[int]*domain.Showtime)
	seen := make(map[string]bool)

	for _, item := range items {
		switch domain.OrderItemType(item.Type) {
		case domain.OrderItemTicket:
			if item.ShowtimeId == nil || item.Row == nil || item.SeatNumber == nil {
				return nil, errors.New("ticket items require showtimeId, row and seatNumber")
			}
			if item.Quantity != 1 {
				return nil, errors.New("ticket items must have quantity 1")
			}

			showtime, ok := showtimes[*item.ShowtimeId]
			if !ok {
				var err error
				showtime, err = app.showtimeRepo.GetById(ctx, *item.ShowtimeId)
				if err != nil {
					return nil, err
				}
				showtimes[*item.ShowtimeId] = showtime
			}

			seat := domain.SelectedSeat{Row: *item.Row, SeatNumber: *item.SeatNumber}

			dedupeKey := fmt.Sprintf("%d:%s", *item.ShowtimeId, seat.Key())
			if seen[dedupeKey] {
				return nil, fmt.Errorf("duplicate ticket for seat %s", seat.Key())
			}
			seen[dedupeKey] = true

			out = append(out, domain.OrderItem{
				Type:       domain.OrderItemTicket,
				ShowtimeID: item.ShowtimeId,
				Row:        item.Row,
				SeatNumber: item.SeatNumber,
				Quantity:   1,
				UnitPrice:  app.pricer.UnitPrice(showtime, seat),
			})

		case domain.OrderItemProduct:
			if item.ProductId == nil {
				return nil, errors.New("product items require productId")
			}

			product, err := app.productRepo.GetById(ctx, *item.ProductId)
			if err != nil {
				return nil, err
			}
			if !product.Active {
				return nil, fmt.Errorf("product %d is not available", product.ID)
			}

			out = append(out, domain.OrderItem{
				Type:      domain.OrderItemProduct,
				ProductID: item.ProductId,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
		}
	}

	if len(out) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	return out, nil
}

// verifySeatLockOwnership checks that every ticket seat still carries a live
// lock owned by the caller's session. A missing lock means the hold expired;
// a lock held by someone else means the seat was raced away.
func (app *Application) verifySeatLockOwnership(ctx context.Context, items []domain.OrderItem, sessionID string) error {
	if app.redis == nil {
		return nil
	}

	for _, item := range items {
		if item.Type != domain.OrderItemTicket {
			continue
		}

		seat := domain.SelectedSeat{Row: *item.Row, SeatNumber: *item.SeatNumber}
		owner, err := app.redis.Get(ctx, seatLockKey(*item.ShowtimeID, seat.Key())).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrSeatLockExpired
			}
			return err
		}

		if owner != sessionID {
			return domain.ErrSeatLockConflict
		}
	}

	return nil
}

func (app *Application) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if orderID == "" {
		app.notFoundResponse(w, r)
		return
	}

	order, err := app.orderRepo.GetById(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.OrderResponse{Order: toApiOrder(order)}

	payment, err := app.paymentRepo.GetByOrderId(r.Context(), orderID)
	if err == nil {
		resp.Payment = toApiPaymentInfo(payment)
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// expireOrdersLoop sweeps pending orders whose payment window has elapsed,
// flipping them to expired and releasing any seat locks they still hold.
func (app *Application) expireOrdersLoop(ctx context.Context) {
	ticker := time.NewTicker(orderSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.expireOrders(ctx)
		}
	}
}

func (app *Application) expireOrders(ctx context.Context) {
	orders, err := app.orderRepo.GetExpiredPending(ctx, time.Now().Add(-orderPaymentTTL))
	if err != nil {
		app.logger.Error("order expiry sweep failed", "error", err)
		return
	}

	for _, order := range orders {
		err := app.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusExpired)
		if err != nil {
			// Lost a race with a webhook or another sweep; the order is no
			// longer expirable.
			if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrEditConflict) {
				continue
			}
			app.logger.Error("failed to expire order", "order_id", order.ID, "error", err)
			continue
		}

		app.releaseOrderSeats(ctx, order)
		app.metrics.ordersExpired.Inc()
		app.logger.Info("expired pending order", "order_id", order.ID)
	}
}

// releaseOrderSeats frees the seat locks behind an order's ticket items and
// announces the change per showtime.
func (app *Application) releaseOrderSeats(ctx context.Context, order *domain.Order) {
	byShowtime := make(map[int][]domain.SelectedSeat)

	for _, item := range order.Items {
		if item.Type != domain.OrderItemTicket || item.ShowtimeID == nil || item.Row == nil || item.SeatNumber == nil {
			continue
		}
		byShowtime[*item.ShowtimeID] = append(byShowtime[*item.ShowtimeID], domain.SelectedSeat{
			Row:        *item.Row,
			SeatNumber: *item.SeatNumber,
		})
	}

	for showtimeID, seats := range byShowtime {
		app.releaseSeatLocks(ctx, showtimeID, seats)
		app.publishSeatEvent(ctx, showtimeID)
	}
}

// publishSeatEvent fans a seat availability change out to subscribed clients.
func (app *Application) publishSeatEvent(ctx context.Context, showtimeID int) {
	if app.redis == nil {
		return
	}

	payload, err := json.Marshal(map[string]int{"showtimeId": showtimeID})
	if err != nil {
		return
	}

	err = app.redis.Publish(ctx, seatEventsTopic, payload).Err()
	if err != nil {
		app.logger.Error("failed to publish seat event", "showtime_id", showtimeID, "error", err)
	}
}

// contextIdentity returns the authenticated identity or nil for anonymous
// requests. Order creation is open to both.
func (app *Application) contextIdentity(r *http.Request) *auth.Identity {
	identity, ok := r.Context().Value(contextKeyIdentity).(*auth.Identity)
	if !ok {
		return nil
	}

	return identity
}

func ticketShowtimes(items []domain.OrderItem) []int {
	seen := make(map[int]bool)
	var out []int

	for _, item := range items {
		if item.Type != domain.OrderItemTicket || item.ShowtimeID == nil {
			continue
		}
		if !seen[*item.ShowtimeID] {
			seen[*item.ShowtimeID] = true
			out = append(out, *item.ShowtimeID)
		}
	}

	return out
}

func toSelectedSeats(seats []api.SelectedSeatRequest) []domain.SelectedSeat {
	out := make([]domain.SelectedSeat, len(seats))
	for i, seat := range seats {
		out[i] = domain.SelectedSeat{Row: seat.Row, SeatNumber: seat.SeatNumber}
	}

	return out
}

func dedupeSelectedSeats(seats []domain.SelectedSeat) []domain.SelectedSeat {
	seen := make(map[string]bool, len(seats))
	out := make([]domain.SelectedSeat, 0, len(seats))

	for _, seat := range seats {
		if seen[seat.Key()] {
			continue
		}
		seen[seat.Key()] = true
		out = append(out, seat)
	}

	return out
}

func toApiOrder(order *domain.Order) api.Order {
	items := make([]api.OrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = api.OrderItem{
			Type:       string(item.Type),
			ShowtimeId: item.ShowtimeID,
			ProductId:  item.ProductID,
			Row:        item.Row,
			SeatNumber: item.SeatNumber,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	return api.Order{
		Id:        order.ID,
		Status:    string(order.Status),
		Channel:   string(order.Channel),
		Total:     order.Total,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

func toApiPaymentInfo(payment *domain.Payment) *api.PaymentInfo {
	if payment == nil {
		return nil
	}

	return &api.PaymentInfo{
		Id:        payment.ID,
		Status:    string(payment.Status),
		QrCode:    payment.QrCode,
		QrCodeUrl: payment.QrCodeUrl,
		ExpiresAt: payment.ExpiresAt,
	}
}
