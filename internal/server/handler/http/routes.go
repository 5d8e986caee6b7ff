package http

import (
	"net/http"

	"github.com/atinyakov/ShopKeeper/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves
// the ShopKeeper API under /api.
//
// Routes:
//
//	POST   /api/register                       → authHandler.Register
//	POST   /api/login                          → authHandler.Login
//	GET    /api/accounts                       → authHandler.Accounts
//	POST   /api/login/federated                → authHandler.LoginFederated
//	POST   /api/logout                         → authHandler.Logout
//	GET    /api/session                        → authHandler.Session
//	GET    /api/lists                          → listHandler.List
//	POST   /api/lists                          → listHandler.Create
//	GET    /api/lists/{id}                     → listHandler.Get
//	PUT    /api/lists/{id}                     → listHandler.Put
//	PATCH  /api/lists/{id}                     → listHandler.Rename
//	DELETE /api/lists/{id}                     → listHandler.Delete
//	POST   /api/lists/{id}/items               → listHandler.AddItem
//	DELETE /api/lists/{id}/items/checked       → listHandler.ClearChecked
//	PATCH  /api/lists/{id}/items/{itemID}      → listHandler.CheckItem
//	DELETE /api/lists/{id}/items/{itemID}      → listHandler.DeleteItem
//
// Middleware chain (applied in order):
//  1. AllowContentType("application/json"): rejects non-JSON bodies
//  2. WithRequestLogging(logger): logs every request
//  3. WithSession (list routes only): resolves the list namespace
func NewRouter(
	authHandler *AuthHandler,
	listHandler *ListHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/accounts", authHandler.Accounts)
		r.Post("/login/federated", authHandler.LoginFederated)
		r.Post("/logout", authHandler.Logout)
		r.Get("/session", authHandler.Session)

		r.Route("/lists", func(r chi.Router) {
			r.Use(middleware.WithSession(authHandler.AuthService))

			r.Get("/", listHandler.List)
			r.Post("/", listHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", listHandler.Get)
				r.Put("/", listHandler.Put)
				r.Patch("/", listHandler.Rename)
				r.Delete("/", listHandler.Delete)
				r.Post("/items", listHandler.AddItem)
				r.Delete("/items/checked", listHandler.ClearChecked)
				r.Patch("/items/{itemID}", listHandler.CheckItem)
				r.Delete("/items/{itemID}", listHandler.DeleteItem)
			})
		})
	})

	return r
}
