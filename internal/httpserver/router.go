package httpserver

import (
	"net/http"

	"github.com/sami992010/ProBTC/internal/admin"
	"github.com/sami992010/ProBTC/internal/auth"
	"github.com/sami992010/ProBTC/internal/httputil"
	"github.com/sami992010/ProBTC/internal/ledger"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	AuthHandler   *auth.Handler
	LedgerHandler *ledger.Handler
	AdminHandler  *admin.Handler
	AuthService   *auth.Service
	WSHandler     http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS middleware for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", d.AuthHandler.Register)
		r.Post("/login", d.AuthHandler.Login)
		r.Get("/ws", d.WSHandler.ServeHTTP)
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Get("/balance", func(w http.ResponseWriter, r *http.Request) {
				id, ok := CallerIdentity(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.LedgerHandler.Balance(w, r, id.UserID)
			})
			r.Post("/trade/open", func(w http.ResponseWriter, r *http.Request) {
				id, ok := CallerIdentity(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.LedgerHandler.OpenTrade(w, r, id.UserID)
			})
			r.Post("/trade/close", func(w http.ResponseWriter, r *http.Request) {
				id, ok := CallerIdentity(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.LedgerHandler.CloseTrade(w, r, id.UserID)
			})
			r.Get("/trade", func(w http.ResponseWriter, r *http.Request) {
				id, ok := CallerIdentity(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.LedgerHandler.Trades(w, r, id.UserID)
			})
			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
					id, ok := CallerIdentity(r)
					if !ok {
						httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
						return
					}
					d.AdminHandler.Users(w, r, id.IsAdmin)
				})
				r.Get("/trades", func(w http.ResponseWriter, r *http.Request) {
					id, ok := CallerIdentity(r)
					if !ok {
						httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
						return
					}
					d.AdminHandler.Trades(w, r, id.IsAdmin)
				})
				r.Post("/trade/close", func(w http.ResponseWriter, r *http.Request) {
					id, ok := CallerIdentity(r)
					if !ok {
						httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
						return
					}
					d.AdminHandler.CloseTrade(w, r, id.IsAdmin)
				})
			})
		})
	})
	return r
}
