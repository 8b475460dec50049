package app

import (
	"net/http"

	"github.com/cinetick/cinema-pos/api"
)

// KickRealtimeFeeds requests an immediate reconnect of the push channels,
// the server-side counterpart of a connectivity-restored signal. Feeds that
// are not in a failed state ignore the kick.
func (app *Application) KickRealtimeFeeds(w http.ResponseWriter, r *http.Request) {
	app.seatFeed.Kick()
	app.orderFeed.Kick()

	resp := api.RealtimeStatusResponse{
		SeatFeed:  string(app.seatFeed.State()),
		OrderFeed: string(app.orderFeed.State()),
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
