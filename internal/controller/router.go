package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/username", c.getUserName)
		r.Put("/username", c.setUserName)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", c.createRoom)
			r.Route("/{room-id}", func(r chi.Router) {
				r.Get("/", c.getRoom)
				r.Post("/join", c.joinRoom)
				r.Post("/vote", c.castVote)
				r.Post("/reveal", c.setRevealed)
				r.Post("/reset", c.resetRound)
				r.Post("/topic", c.setTopic)
				r.Post("/members/toggle-voting", c.toggleVotingStatus)
			})
		})

		r.Route("/ws", func(r chi.Router) {
			r.Route("/room", func(r chi.Router) {
				r.Get("/{room-id}", c.roomSession)
			})
		})
	})

	return r
}
