package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type seatInput struct {
	Row string `validate:"seat_row"`
}

type channelInput struct {
	Channel string `validate:"order_channel"`
}

type modeInput struct {
	Mode string `validate:"pos_mode"`
}

func TestSeatRowValidation(t *testing.T) {
	validate := NewValidator()

	valid := []string{"A", "Z", "AA", "BF"}
	for _, row := range valid {
		require.NoError(t, validate.Struct(seatInput{Row: row}), "row %q", row)
	}

	invalid := []string{"", "a", "AAA", "A1", "1", " A"}
	for _, row := range invalid {
		require.Error(t, validate.Struct(seatInput{Row: row}), "row %q", row)
	}
}

func TestOrderChannelValidation(t *testing.T) {
	validate := NewValidator()

	for _, channel := range []string{"web", "mobile", "pos"} {
		require.NoError(t, validate.Struct(channelInput{Channel: channel}), "channel %q", channel)
	}

	for _, channel := range []string{"", "WEB", "kiosk"} {
		require.Error(t, validate.Struct(channelInput{Channel: channel}), "channel %q", channel)
	}
}

func TestPosModeValidation(t *testing.T) {
	validate := NewValidator()

	for _, mode := range []string{"products", "tickets", "checkout"} {
		require.NoError(t, validate.Struct(modeInput{Mode: mode}), "mode %q", mode)
	}

	for _, mode := range []string{"", "standby", "Products"} {
		require.Error(t, validate.Struct(modeInput{Mode: mode}), "mode %q", mode)
	}
}
