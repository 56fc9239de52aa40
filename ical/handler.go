package ical

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"git.sr.ht/~mariusor/pamokos/storage"
)

const (
	// The served window mirrors what subscribing clients care about, the
	// previous week plus the coming four.
	servedBack    = 7 * 24 * time.Hour
	servedForward = 28 * 24 * time.Hour
)

type handler struct {
	token string
	store storage.Loader
}

// NewHandler serves the published calendar out of the event store. Requests
// carrying the wrong path token get a plain 404, the token is obscurity and
// not authentication so there is nothing more specific to say.
func NewHandler(token string, st storage.Loader) http.Handler {
	return handler{token: token, store: st}
}

func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tok := chi.URLParam(r, "token")
	if subtle.ConstantTimeCompare([]byte(tok), []byte(h.token)) != 1 {
		http.NotFound(w, r)
		return
	}

	start := time.Now().UTC().Add(-servedBack)
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	events, err := h.store.LoadEvents(storage.Cursor(start, servedBack+servedForward))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(Encode(events))
}
