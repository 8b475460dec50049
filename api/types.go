// Package api defines the JSON request and response shapes of the HTTP
// surface. These types are the wire contract; handlers map them to and from
// domain types and never expose repository entities directly.
package api

import (
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Movies

type Movie struct {
	Id          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	PosterUrl   string    `json:"posterUrl"`
	DurationMin int       `json:"durationMin"`
	Rating      string    `json:"rating"`
	ReleaseDate time.Time `json:"releaseDate"`
	Active      bool      `json:"active"`
}

type MoviesResponse struct {
	Movies   []Movie  `json:"movies"`
	Metadata Metadata `json:"metadata"`
}

type MovieResponse struct {
	Movie Movie `json:"movie"`
}

type CreateMovieRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	Genre       string    `json:"genre" validate:"required,max=50"`
	PosterUrl   string    `json:"posterUrl" validate:"omitempty,url"`
	DurationMin int       `json:"durationMin" validate:"required,gt=0"`
	Rating      string    `json:"rating" validate:"omitempty,max=10"`
	ReleaseDate time.Time `json:"releaseDate" validate:"required"`
}

type UpdateMovieRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description"`
	Genre       *string    `json:"genre" validate:"omitempty,max=50"`
	PosterUrl   *string    `json:"posterUrl" validate:"omitempty,url"`
	DurationMin *int       `json:"durationMin" validate:"omitempty,gt=0"`
	Rating      *string    `json:"rating" validate:"omitempty,max=10"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Active      *bool      `json:"active"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

// Showtimes and seats

type Showtime struct {
	Id        int             `json:"id"`
	MovieId   int             `json:"movieId"`
	RoomId    int             `json:"roomId"`
	RoomName  string          `json:"roomName"`
	StartsAt  time.Time       `json:"startsAt"`
	EndsAt    time.Time       `json:"endsAt"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Language  string          `json:"language,omitempty"`
	Format    string          `json:"format,omitempty"`
	Movie     *Movie          `json:"movie,omitempty"`
}

type ShowtimesResponse struct {
	Showtimes []Showtime `json:"showtimes"`
}

type Seat struct {
	Row       string `json:"row"`
	Number    int    `json:"number"`
	Type      string `json:"type"`
	Available bool   `json:"available"`
}

type SeatRow struct {
	Row   string `json:"row"`
	Seats []Seat `json:"seats"`
}

type SeatMapResponse struct {
	ShowtimeId int       `json:"showtimeId"`
	RoomId     int       `json:"roomId"`
	RoomName   string    `json:"roomName"`
	SeatRows   []SeatRow `json:"seatRows"`
}

// Products

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,max=100"`
	Category string          `json:"category" validate:"required,max=50"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	ImageUrl string          `json:"imageUrl" validate:"omitempty,url"`
}

// Seat locking and orders

type SelectedSeatRequest struct {
	Row        string `json:"row" validate:"required,seat_row"`
	SeatNumber int    `json:"seatNumber" validate:"required,gt=0"`
}

type LockSeatsRequest struct {
	ShowtimeId int                   `json:"showtimeId" validate:"required,gt=0"`
	Seats      []SelectedSeatRequest `json:"seats" validate:"required,min=1,max=8,dive"`
}

type LockSeatsResponse struct {
	Locks     []domain.SeatHold `json:"locks"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

type OrderItemRequest struct {
	Type       string  `json:"type" validate:"required,oneof=ticket product"`
	ShowtimeId *int    `json:"showtimeId" validate:"omitempty,gt=0"`
	ProductId  *int    `json:"productId" validate:"omitempty,gt=0"`
	Row        *string `json:"row" validate:"omitempty,seat_row"`
	SeatNumber *int    `json:"seatNumber" validate:"omitempty,gt=0"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Channel string             `json:"channel" validate:"required,order_channel"`
}

type Order struct {
	Id        string          `json:"id"`
	Status    string          `json:"status"`
	Channel   string          `json:"channel"`
	Total     decimal.Decimal `json:"total"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
}

type OrderItem struct {
	Type       string          `json:"type"`
	ShowtimeId *int            `json:"showtimeId,omitempty"`
	ProductId  *int            `json:"productId,omitempty"`
	Row        *string         `json:"row,omitempty"`
	SeatNumber *int            `json:"seatNumber,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

type PaymentInfo struct {
	Id        string    `json:"id"`
	Status    string    `json:"status"`
	QrCode    string    `json:"qrCode,omitempty"`
	QrCodeUrl string    `json:"qrCodeUrl,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type OrderResponse struct {
	Order   Order        `json:"order"`
	Payment *PaymentInfo `json:"payment,omitempty"`
}

type PaymentWebhookRequest struct {
	PaymentId string `json:"paymentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=APPROVED REJECTED CANCELLED"`
}

// Auth

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	Id    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// Checkout session

type SetTicketsRequest struct {
	MovieId        int                   `json:"movieId" validate:"required,gt=0"`
	ShowtimeId     int                   `json:"showtimeId" validate:"required,gt=0"`
	Seats          []SelectedSeatRequest `json:"seats" validate:"required,min=1,max=8,dive"`
	TicketQuantity int                   `json:"ticketQuantity" validate:"omitempty,gt=0"`
}

type AddToCartRequest struct {
	ProductId int `json:"productId" validate:"required,gt=0"`
}

type SetCartQuantityRequest struct {
	ProductId int `json:"productId" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"min=0"`
}

type SetOrderRequest struct {
	OrderId string `json:"orderId"`
}

type CheckoutSession struct {
	MovieId        int                   `json:"movieId,omitempty"`
	ShowtimeId     int                   `json:"showtimeId,omitempty"`
	Showtime       *domain.Showtime      `json:"showtime,omitempty"`
	Seats          []domain.SelectedSeat `json:"seats,omitempty"`
	SeatLock       *domain.SeatLock      `json:"seatLock,omitempty"`
	Cart           []domain.CartLine     `json:"cart,omitempty"`
	OrderId        string                `json:"orderId,omitempty"`
	TicketQuantity int                   `json:"ticketQuantity,omitempty"`
}

type CheckoutSessionResponse struct {
	Session CheckoutSession `json:"session"`
}

// POS

type PosTicketDraft struct {
	ShowtimeId int                   `json:"showtimeId"`
	Showtime   *domain.Showtime      `json:"showtime,omitempty"`
	Seats      []domain.SelectedSeat `json:"seats"`
	Locks      *domain.SeatLock      `json:"locks,omitempty"`
}

type PosState struct {
	Products      []domain.CartLine `json:"products"`
	TicketDraft   *PosTicketDraft   `json:"ticketDraft,omitempty"`
	Mode          string            `json:"mode"`
	ProductsTotal decimal.Decimal   `json:"productsTotal"`
	TicketsTotal  decimal.Decimal   `json:"ticketsTotal"`
	Total         decimal.Decimal   `json:"total"`
}

type PosStateResponse struct {
	State PosState `json:"state"`
}

type PosModeRequest struct {
	Mode string `json:"mode" validate:"required,pos_mode"`
}

type PosDraftRequest struct {
	ShowtimeId int                   `json:"showtimeId" validate:"required,gt=0"`
	Seats      []SelectedSeatRequest `json:"seats" validate:"omitempty,dive"`
}

type PosSeatsRequest struct {
	Seats []SelectedSeatRequest `json:"seats" validate:"required,min=1,dive"`
}

type SimulatePaymentRequest struct {
	OrderId string `json:"orderId" validate:"required"`
}

// Admin

type RoomRequest struct {
	Name        string   `json:"name" validate:"required,max=50"`
	Rows        []string `json:"rows" validate:"required,min=1,dive,seat_row"`
	SeatsPerRow int      `json:"seatsPerRow" validate:"required,gt=0"`
	Active      *bool    `json:"active"`
}

type Room struct {
	Id          int      `json:"id"`
	Name        string   `json:"name"`
	Rows        []string `json:"rows"`
	SeatsPerRow int      `json:"seatsPerRow"`
	Active      bool     `json:"active"`
}

type RoomsResponse struct {
	Rooms []Room `json:"rooms"`
}

type PricingRuleRequest struct {
	Name       string          `json:"name" validate:"required,max=100"`
	SeatType   string          `json:"seatType" validate:"omitempty,max=30"`
	Weekday    *int            `json:"weekday" validate:"omitempty,min=0,max=6"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Surcharge  decimal.Decimal `json:"surcharge"`
	Active     *bool           `json:"active"`
}

type PricingRule struct {
	Id         int             `json:"id"`
	Name       string          `json:"name"`
	SeatType   string          `json:"seatType,omitempty"`
	Weekday    *int            `json:"weekday,omitempty"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Surcharge  decimal.Decimal `json:"surcharge"`
	Active     bool            `json:"active"`
}

type PricingRulesResponse struct {
	PricingRules []PricingRule `json:"pricingRules"`
}

// Realtime

type AudioFeedResponse struct {
	State     string `json:"state"`
	Preferred bool   `json:"preferred"`
}

type RealtimeStatusResponse struct {
	SeatFeed  string `json:"seatFeed"`
	OrderFeed string `json:"orderFeed"`
}
