package oauthcallback

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yeohaeng/travel-client/auth"
)

// Handler mounts the callback route on a chi router. Each request gets its
// own Reconciler, so every callback navigation carries its own single-use
// guard.
func Handler(sessions SocialLoginer, navigator auth.Navigator, options ...Option) http.Handler {
	router := chi.NewRouter()
	router.Get("/oauth/{provider}/callback", func(w http.ResponseWriter, req *http.Request) {
		reconciler := New(sessions, navigator, options...)
		switch reconciler.Handle(req.Context(), req.URL) {
		case StateSuccess:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintln(w, "Login complete. You can return to the app.")
		default:
			http.Error(w, reconciler.Message(), http.StatusBadRequest)
		}
	})
	return router
}
