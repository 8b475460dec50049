package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
)

// Fixtures hold an in-memory catalog used when the application runs in mock
// mode, so the full HTTP surface works without Postgres. Writes mutate the
// in-memory state and are lost on restart.
type Fixtures struct {
	mu           sync.RWMutex
	movies       []*domain.Movie
	showtimes    []*domain.Showtime
	rooms        []*domain.Room
	products     []*domain.Product
	pricingRules []*domain.PricingRule
	users        []*domain.User
	orders       map[string]*domain.Order
	payments     map[string]*domain.Payment
	nextID       int
}

func NewFixtures() *Fixtures {
	f := &Fixtures{
		orders:   make(map[string]*domain.Order),
		payments: make(map[string]*domain.Payment),
		nextID:   1000,
	}
	f.seed()

	return f
}

func (f *Fixtures) seed() {
	now := time.Now()
	release := time.Date(2026, time.June, 12, 0, 0, 0, 0, time.UTC)

	f.movies = []*domain.Movie{
		{ID: 1, Title: "The Long Night", Genre: "Thriller", DurationMin: 128, Rating: "15", ReleaseDate: release, Active: true, Version: 1},
		{ID: 2, Title: "Paper Planets", Genre: "Animation", DurationMin: 96, Rating: "PG", ReleaseDate: release.AddDate(0, 1, 0), Active: true, Version: 1},
		{ID: 3, Title: "Harbor Lights", Genre: "Drama", DurationMin: 141, Rating: "12A", ReleaseDate: release.AddDate(0, -2, 0), Active: true, Version: 1},
	}

	f.rooms = []*domain.Room{
		{ID: 1, Name: "Screen 1", Rows: []string{"A", "B", "C", "D", "E", "F"}, SeatsPerRow: 12, Active: true, Version: 1},
		{ID: 2, Name: "Screen 2", Rows: []string{"A", "B", "C", "D"}, SeatsPerRow: 8, Active: true, Version: 1},
	}

	evening := time.Date(now.Year(), now.Month(), now.Day(), 19, 30, 0, 0, time.Local)

	f.showtimes = []*domain.Showtime{
		{ID: 1, MovieID: 1, RoomID: 1, RoomName: "Screen 1", StartsAt: evening, EndsAt: evening.Add(128 * time.Minute), BasePrice: decimal.NewFromFloat(11.50), Language: "EN", Format: "2D", Version: 1},
		{ID: 2, MovieID: 2, RoomID: 2, RoomName: "Screen 2", StartsAt: evening.Add(30 * time.Minute), EndsAt: evening.Add(126 * time.Minute), BasePrice: decimal.NewFromFloat(9.00), Language: "EN", Format: "2D", Version: 1},
		{ID: 3, MovieID: 1, RoomID: 1, RoomName: "Screen 1", StartsAt: evening.AddDate(0, 0, 1), EndsAt: evening.AddDate(0, 0, 1).Add(128 * time.Minute), BasePrice: decimal.NewFromFloat(12.50), Language: "EN", Format: "IMAX", Version: 1},
	}

	f.products = []*domain.Product{
		{ID: 1, Name: "Large Popcorn", Category: "snacks", Price: decimal.NewFromFloat(6.50), Active: true, Version: 1},
		{ID: 2, Name: "Soda", Category: "drinks", Price: decimal.NewFromFloat(3.75), Active: true, Version: 1},
		{ID: 3, Name: "Nachos", Category: "snacks", Price: decimal.NewFromFloat(5.25), Active: true, Version: 1},
	}

	saturday := time.Saturday

	f.pricingRules = []*domain.PricingRule{
		{ID: 1, Name: "Weekend uplift", Weekday: &saturday, Multiplier: decimal.NewFromFloat(1.2), Active: true, Version: 1},
		{ID: 2, Name: "Premium seats", SeatType: "premium", Surcharge: decimal.NewFromFloat(2.50), Multiplier: decimal.NewFromInt(1), Active: true, Version: 1},
	}

	staff := &domain.User{ID: 1, Email: "staff@cinetick.local", Name: "Demo Staff", Role: domain.RoleStaff, Active: true, Version: 1}
	staff.Password.Set("pa55word1234")

	admin := &domain.User{ID: 2, Email: "admin@cinetick.local", Name: "Demo Admin", Role: domain.RoleAdmin, Active: true, Version: 1}
	admin.Password.Set("pa55word1234")

	f.users = []*domain.User{staff, admin}
}

type FixtureMovieRepository struct{ f *Fixtures }

func (f *Fixtures) Movies() *FixtureMovieRepository { return &FixtureMovieRepository{f} }

func (r *FixtureMovieRepository) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	matched := []*domain.Movie{}

	for _, movie := range r.f.movies {
		if pagination.Term != "" && !strings.Contains(strings.ToLower(movie.Title), strings.ToLower(pagination.Term)) {
			continue
		}

		matched = append(matched, movie)
	}

	slices.SortFunc(matched, func(a, b *domain.Movie) int {
		return strings.Compare(a.Title, b.Title)
	})

	metadata := domain.NewMetadata(len(matched), pagination.Page, pagination.PageSize)

	start := min(pagination.Offset(), len(matched))
	end := min(start+pagination.Limit(), len(matched))

	return matched[start:end], metadata, nil
}

func (r *FixtureMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, movie := range r.f.movies {
		if movie.ID == id {
			return movie, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixtureMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	movie.ID = r.f.next()
	movie.CreatedAt = time.Now()
	movie.Version = 1
	r.f.movies = append(r.f.movies, movie)

	return nil
}

func (r *FixtureMovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.movies {
		if existing.ID != movie.ID {
			continue
		}
		if existing.Version != movie.Version {
			return domain.ErrEditConflict
		}

		movie.Version++
		r.f.movies[i] = movie

		return nil
	}

	return domain.ErrRecordNotFound
}

func (r *FixtureMovieRepository) Delete(ctx context.Context, id int) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.movies {
		if existing.ID == id {
			r.f.movies = slices.Delete(r.f.movies, i, i+1)
			return nil
		}
	}

	return domain.ErrRecordNotFound
}

type FixtureShowtimeRepository struct{ f *Fixtures }

func (f *Fixtures) Showtimes() *FixtureShowtimeRepository { return &FixtureShowtimeRepository{f} }

func (r *FixtureShowtimeRepository) GetAll(ctx context.Context, filters domain.ShowtimeFilters) ([]*domain.Showtime, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	matched := []*domain.Showtime{}

	for _, showtime := range r.f.showtimes {
		if filters.MovieID != 0 && showtime.MovieID != filters.MovieID {
			continue
		}
		if !filters.Date.IsZero() {
			y1, m1, d1 := filters.Date.Date()
			y2, m2, d2 := showtime.StartsAt.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}

		matched = append(matched, showtime)
	}

	return matched, nil
}

func (r *FixtureShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, showtime := range r.f.showtimes {
		if showtime.ID == id {
			return showtime, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixtureShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	showtime.ID = r.f.next()
	showtime.CreatedAt = time.Now()
	showtime.Version = 1
	r.f.showtimes = append(r.f.showtimes, showtime)

	return nil
}

type FixtureSeatRepository struct{ f *Fixtures }

func (f *Fixtures) Seats() *FixtureSeatRepository { return &FixtureSeatRepository{f} }

func (r *FixtureSeatRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) (*domain.SeatMap, error) {
	showtime, err := r.f.Showtimes().GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	var room *domain.Room

	for _, candidate := range r.f.rooms {
		if candidate.ID == showtime.RoomID {
			room = candidate
			break
		}
	}

	if room == nil {
		return nil, domain.ErrRecordNotFound
	}

	seatMap := &domain.SeatMap{
		ShowtimeID: showtimeID,
		RoomID:     room.ID,
		RoomName:   room.Name,
	}

	lastRow := ""
	if len(room.Rows) > 0 {
		lastRow = room.Rows[len(room.Rows)-1]
	}

	for _, row := range room.Rows {
		seatType := "standard"
		if row == lastRow {
			seatType = "premium"
		}

		for n := 1; n <= room.SeatsPerRow; n++ {
			seatMap.Seats = append(seatMap.Seats, domain.Seat{
				Row:       row,
				Number:    n,
				Type:      seatType,
				Available: true,
			})
		}
	}

	return seatMap, nil
}

func (r *FixtureSeatRepository) GetReservedSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	seats := []domain.SelectedSeat{}

	for _, order := range r.f.orders {
		if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusPaid {
			continue
		}

		for _, item := range order.Items {
			if item.Type != domain.OrderItemTicket || item.ShowtimeID == nil || *item.ShowtimeID != showtimeID {
				continue
			}

			seats = append(seats, domain.SelectedSeat{Row: *item.Row, SeatNumber: *item.SeatNumber})
		}
	}

	return seats, nil
}

type FixtureProductRepository struct{ f *Fixtures }

func (f *Fixtures) Products() *FixtureProductRepository { return &FixtureProductRepository{f} }

func (r *FixtureProductRepository) GetAll(ctx context.Context, filters domain.ProductFilters) ([]*domain.Product, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	matched := []*domain.Product{}

	for _, product := range r.f.products {
		if filters.Category != "" && product.Category != filters.Category {
			continue
		}
		if filters.ActiveOnly && !product.Active {
			continue
		}

		matched = append(matched, product)
	}

	return matched, nil
}

func (r *FixtureProductRepository) GetById(ctx context.Context, id int) (*domain.Product, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, product := range r.f.products {
		if product.ID == id {
			return product, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixtureProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	product.ID = r.f.next()
	product.CreatedAt = time.Now()
	product.Version = 1
	r.f.products = append(r.f.products, product)

	return nil
}

func (r *FixtureProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.products {
		if existing.ID != product.ID {
			continue
		}
		if existing.Version != product.Version {
			return domain.ErrEditConflict
		}

		product.Version++
		r.f.products[i] = product

		return nil
	}

	return domain.ErrRecordNotFound
}

type FixtureRoomRepository struct{ f *Fixtures }

func (f *Fixtures) Rooms() *FixtureRoomRepository { return &FixtureRoomRepository{f} }

func (r *FixtureRoomRepository) GetAll(ctx context.Context) ([]*domain.Room, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	return slices.Clone(r.f.rooms), nil
}

func (r *FixtureRoomRepository) GetById(ctx context.Context, id int) (*domain.Room, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, room := range r.f.rooms {
		if room.ID == id {
			return room, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixtureRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	room.ID = r.f.next()
	room.CreatedAt = time.Now()
	room.Version = 1
	r.f.rooms = append(r.f.rooms, room)

	return nil
}

func (r *FixtureRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.rooms {
		if existing.ID != room.ID {
			continue
		}
		if existing.Version != room.Version {
			return domain.ErrEditConflict
		}

		room.Version++
		r.f.rooms[i] = room

		return nil
	}

	return domain.ErrRecordNotFound
}

type FixturePricingRepository struct{ f *Fixtures }

func (f *Fixtures) Pricing() *FixturePricingRepository { return &FixturePricingRepository{f} }

func (r *FixturePricingRepository) GetAll(ctx context.Context) ([]*domain.PricingRule, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	return slices.Clone(r.f.pricingRules), nil
}

func (r *FixturePricingRepository) GetById(ctx context.Context, id int) (*domain.PricingRule, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, rule := range r.f.pricingRules {
		if rule.ID == id {
			return rule, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixturePricingRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	rule.ID = r.f.next()
	rule.CreatedAt = time.Now()
	rule.Version = 1
	r.f.pricingRules = append(r.f.pricingRules, rule)

	return nil
}

func (r *FixturePricingRepository) Update(ctx context.Context, rule *domain.PricingRule) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.pricingRules {
		if existing.ID != rule.ID {
			continue
		}
		if existing.Version != rule.Version {
			return domain.ErrEditConflict
		}

		rule.Version++
		r.f.pricingRules[i] = rule

		return nil
	}

	return domain.ErrRecordNotFound
}

func (r *FixturePricingRepository) Delete(ctx context.Context, id int) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.pricingRules {
		if existing.ID == id {
			r.f.pricingRules = slices.Delete(r.f.pricingRules, i, i+1)
			return nil
		}
	}

	return domain.ErrRecordNotFound
}

type FixtureUserRepository struct{ f *Fixtures }

func (f *Fixtures) Users() *FixtureUserRepository { return &FixtureUserRepository{f} }

func (r *FixtureUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for _, existing := range r.f.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return domain.ErrUserAlreadyExists
		}
	}

	user.ID = r.f.next()
	user.CreatedAt = time.Now()
	user.Version = 1
	r.f.users = append(r.f.users, user)

	return nil
}

func (r *FixtureUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, user := range r.f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixtureUserRepository) GetById(ctx context.Context, id int) (*domain.User, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	for _, user := range r.f.users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *FixtureUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for i, existing := range r.f.users {
		if existing.ID != user.ID {
			continue
		}
		if existing.Version != user.Version {
			return domain.ErrEditConflict
		}

		user.Version++
		r.f.users[i] = user

		return nil
	}

	return domain.ErrRecordNotFound
}

type FixtureOrderRepository struct{ f *Fixtures }

func (f *Fixtures) Orders() *FixtureOrderRepository { return &FixtureOrderRepository{f} }

func (r *FixtureOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	order.CreatedAt = time.Now()
	order.Version = 1
	r.f.orders[order.ID] = order

	return nil
}

func (r *FixtureOrderRepository) GetById(ctx context.Context, id string) (*domain.Order, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	order, ok := r.f.orders[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return order, nil
}

func (r *FixtureOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	order, ok := r.f.orders[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	order.Status = status
	order.UpdatedAt = time.Now()
	order.Version++

	return nil
}

func (r *FixtureOrderRepository) GetExpiredPending(ctx context.Context, olderThan time.Time) ([]*domain.Order, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	orders := []*domain.Order{}

	for _, order := range r.f.orders {
		if order.Status == domain.OrderStatusPending && order.CreatedAt.Before(olderThan) {
			orders = append(orders, order)
		}
	}

	return orders, nil
}

func (r *FixtureOrderRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) ([]domain.SelectedSeat, error) {
	return r.f.Seats().GetReservedSeatsByShowtime(ctx, showtimeID)
}

type FixturePaymentRepository struct{ f *Fixtures }

func (f *Fixtures) Payments() *FixturePaymentRepository { return &FixturePaymentRepository{f} }

func (r *FixturePaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	payment.CreatedAt = time.Now()
	r.f.payments[payment.ID] = payment

	return nil
}

func (r *FixturePaymentRepository) GetById(ctx context.Context, id string) (*domain.Payment, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	payment, ok := r.f.payments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return payment, nil
}

func (r *FixturePaymentRepository) GetByOrderId(ctx context.Context, orderID string) (*domain.Payment, error) {
	r.f.mu.RLock()
	defer r.f.mu.RUnlock()

	var latest *domain.Payment

	for _, payment := range r.f.payments {
		if payment.OrderID != orderID {
			continue
		}
		if latest == nil || payment.CreatedAt.After(latest.CreatedAt) {
			latest = payment
		}
	}

	if latest == nil {
		return nil, domain.ErrRecordNotFound
	}

	return latest, nil
}

func (r *FixturePaymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, errMsg string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	payment, ok := r.f.payments[id]
	if !ok {
		return domain.ErrRecordNotFound
	}

	payment.Status = status
	if errMsg != "" {
		payment.ErrorMsg = &errMsg
	}
	if status == domain.PaymentStatusApproved {
		now := time.Now()
		payment.PaidAt = &now
	}

	return nil
}

func (f *Fixtures) next() int {
	f.nextID++
	return f.nextID
}
