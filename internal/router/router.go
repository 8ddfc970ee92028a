package router

import (
	"net/http"

	"bolpur-mart/internal/handler"
	"bolpur-mart/internal/middleware"
	"bolpur-mart/internal/telemetry"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	TimeSlot *handler.TimeSlotHandler
	Session  *handler.SessionHandler
	Cart     *handler.CartHandler
	Wishlist *handler.WishlistHandler
	Order    *handler.OrderHandler
}

// Options configures authentication and tracing for the router.
type Options struct {
	APIKey    string
	Validator middleware.TokenValidator
	// TracingService enables otelhttp instrumentation under this name when set.
	TracingService string
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.APIKeyAuth(opts.APIKey, logger)(fn)
	}
	authed := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(fn)
	}

	mux.HandleFunc("GET /health", h.Health.Health)

	// Catalog
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/{id}", h.Product.Get)
	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("GET /api/categories/available", h.Category.Available)
	mux.HandleFunc("GET /api/categories/timeslot/{slot}", h.Category.ForSlot)
	mux.HandleFunc("GET /api/timeslot/current", h.TimeSlot.Current)
	mux.HandleFunc("GET /api/settings/time-rules", h.TimeSlot.GetRules)
	mux.Handle("PUT /api/settings/time-rules", admin(h.TimeSlot.PutRules))

	// Session
	mux.HandleFunc("POST /api/session", h.Session.Create)
	mux.HandleFunc("GET /api/session", h.Session.Get)
	mux.Handle("POST /api/session/merge", authed(h.Session.Merge))
	mux.HandleFunc("DELETE /api/session", h.Session.Destroy)

	// Cart
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("POST /api/cart", h.Cart.Add)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("GET /api/cart/summary", h.Cart.Summary)
	mux.HandleFunc("PUT /api/cart/item/{id}", h.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/item/{id}", h.Cart.RemoveItem)
	mux.Handle("DELETE /api/cart/user/{userId}", admin(h.Cart.ClearUser))

	// Wishlist
	mux.HandleFunc("GET /api/wishlist", h.Wishlist.List)
	mux.HandleFunc("POST /api/wishlist", h.Wishlist.Add)
	mux.HandleFunc("DELETE /api/wishlist", h.Wishlist.Clear)
	mux.HandleFunc("GET /api/wishlist/{productId}", h.Wishlist.Contains)
	mux.HandleFunc("DELETE /api/wishlist/{productId}", h.Wishlist.Remove)

	// Orders
	mux.Handle("POST /api/orders", authed(h.Order.Create))
	mux.Handle("GET /api/orders", authed(h.Order.List))
	mux.Handle("GET /api/orders/{id}", authed(h.Order.Get))
	mux.Handle("POST /api/orders/{id}/cancel", authed(h.Order.Cancel))
	mux.Handle("PUT /api/orders/{id}/status", admin(h.Order.UpdateStatus))
	mux.Handle("PUT /api/orders/{id}/verification", admin(h.Order.UpdateVerification))

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> OptionalAuth
	var handler http.Handler = mux
	handler = middleware.OptionalAuth(opts.Validator, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	if opts.TracingService != "" {
		handler = telemetry.Middleware(opts.TracingService)(handler)
	}

	return handler
}
