package wire

import (
	"bonus-tma/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, redeemHandler *adaptor.RedeemHandler) {
	r.Route("/user", func(r chi.Router) {
		r.Get("/me", userHandler.Me)
		r.Post("/phone", userHandler.SetPhone)
		r.Get("/purchases", userHandler.Purchases)
		r.Get("/credits", userHandler.Credits)

		// POST /api/user/redeem {serviceId}
		r.Post("/redeem", redeemHandler.Redeem)
	})
}
