package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	menucontroller "comandero/internal/menu/controller"
	ordercontroller "comandero/internal/order/controller"
)

type Controllers struct {
	Menu    *menucontroller.MenuController
	Orders  *ordercontroller.OrderController
	Kitchen *ordercontroller.KitchenController
}

func NewRouter(ctrls Controllers, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/order/{slug}", func(r chi.Router) {
		r.Get("/menu", ctrls.Menu.GetMenu)
		r.Post("/parse", ctrls.Orders.Parse)
		r.Post("/confirm", ctrls.Orders.Confirm)
		r.Get("/status/{orderId}", ctrls.Orders.Status)
		r.Get("/tables/{table}/qr", ctrls.Orders.TableQR)
	})

	r.Route("/api/kitchen", func(r chi.Router) {
		r.Patch("/orders/{orderId}", ctrls.Kitchen.Transition)
		r.Get("/{slug}/orders", ctrls.Kitchen.ListActive)
		if ctrls.Kitchen.CanStream() {
			r.Get("/{slug}/stream", ctrls.Kitchen.Stream)
		}
	})

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-User-ID"},
		MaxAge:         300,
	}).Handler(r)
}
