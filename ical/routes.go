package ical

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"git.sr.ht/~mariusor/pamokos/storage"
)

func Routes(token string, st storage.Loader) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/{token}/"+FileName, NewHandler(token, st))
	return r
}
