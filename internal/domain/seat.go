package domain

import (
	"context"
	"fmt"
	"time"
)

// SelectedSeat identifies one seat within a showtime's layout. Two selections
// are the same seat when both row and number match.
type SelectedSeat struct {
	Row        string `json:"row"`
	SeatNumber int    `json:"seatNumber"`
}

// Key returns the deduplication key used by seat sets and lock keys.
func (s SelectedSeat) Key() string {
	return fmt.Sprintf("%s-%d", s.Row, s.SeatNumber)
}

// SeatLock is a server-granted, time-boxed hold on a set of seats. Clients
// treat it as advisory; expiry is enforced by Redis TTLs, not locally.
type SeatLock struct {
	ExpiresAt time.Time  `json:"expiresAt"`
	Locks     []SeatHold `json:"locks"`
}

type SeatHold struct {
	ID          string    `json:"id"`
	ShowtimeID  int       `json:"showtimeId"`
	Row         string    `json:"row"`
	SeatNumber  int       `json:"seatNumber"`
	LockedUntil time.Time `json:"lockedUntil"`
}

type Seat struct {
	Row       string
	Number    int
	Type      string
	Available bool
}

type SeatMap struct {
	ShowtimeID int
	RoomID     int
	RoomName   string
	Seats      []Seat
}

type SeatRepository interface {
	GetSeatsByShowtime(ctx context.Context, showtimeID int) (*SeatMap, error)
	GetReservedSeatsByShowtime(ctx context.Context, showtimeID int) ([]SelectedSeat, error)
}
