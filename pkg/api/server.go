// Package api exposes the menu, the guest's cart and the orders over HTTP.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"parkorder/pkg/logger"
	"parkorder/pkg/menu"
	"parkorder/pkg/order"
	potel "parkorder/pkg/otel"
	"parkorder/pkg/session"
)

const sessionCookie = "session_id"

// OrderService is the staff-facing side of the order store.
type OrderService interface {
	List(ctx context.Context) ([]order.Order, error)
	Get(ctx context.Context, id string) (order.Order, error)
	SetStatus(ctx context.Context, id string, status order.Status) error
	Delete(ctx context.Context, id string) error
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Menu       *menu.Catalog
	Orders     OrderService
	Sessions   session.Store
	Registry   *session.Registry
	Log        *logger.Logger
	Tracer     trace.Tracer
	SessionTTL time.Duration
	// Admins maps staff user names to passwords. Only staff may use /orders.
	Admins map[string]string
}

// Server serves the HTTP API.
type Server struct {
	menu     *menu.Catalog
	orders   OrderService
	sessions session.Store
	registry *session.Registry
	log      *logger.Logger
	tracer   trace.Tracer
	ttl      time.Duration
	admins   map[string]string
}

// New returns a Server.
func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.SessionTTL <= 0 {
		d.SessionTTL = time.Hour
	}
	return &Server{
		menu:     d.Menu,
		orders:   d.Orders,
		sessions: d.Sessions,
		registry: d.Registry,
		log:      d.Log,
		tracer:   d.Tracer,
		ttl:      d.SessionTTL,
		admins:   d.Admins,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.traceMiddleware)
	r.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	r.HandleFunc("/menu", s.listMenuHandler).Methods(http.MethodGet)
	r.HandleFunc("/menu/{id}", s.getMenuItemHandler).Methods(http.MethodGet)

	auth := r.NewRoute().Subrouter()
	auth.Use(s.authMiddleware)
	auth.HandleFunc("/logout", s.logoutHandler).Methods(http.MethodPost)
	auth.HandleFunc("/notifications", s.notificationsHandler).Methods(http.MethodGet)

	c := auth.PathPrefix("/cart").Subrouter()
	c.HandleFunc("", s.getCartHandler).Methods(http.MethodGet)
	c.HandleFunc("", s.clearCartHandler).Methods(http.MethodDelete)
	c.HandleFunc("/items", s.addCartItemHandler).Methods(http.MethodPost)
	c.HandleFunc("/items/{id}", s.updateCartItemHandler).Methods(http.MethodPut)
	c.HandleFunc("/items/{id}", s.removeCartItemHandler).Methods(http.MethodDelete)
	c.HandleFunc("/details", s.updateCartDetailsHandler).Methods(http.MethodPut)
	c.HandleFunc("/submit", s.submitCartHandler).Methods(http.MethodPost)

	o := auth.PathPrefix("/orders").Subrouter()
	o.Use(s.adminMiddleware)
	o.HandleFunc("", s.listOrdersHandler).Methods(http.MethodGet)
	o.HandleFunc("/{id}", s.getOrderHandler).Methods(http.MethodGet)
	o.HandleFunc("/{id}/status", s.updateOrderStatusHandler).Methods(http.MethodPut)
	o.HandleFunc("/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  string `json:"user"`
	Admin bool   `json:"admin"`
}

// loginHandler starts an ordering session. Guests log in with any name;
// staff names must present their password.
// @Summary Login
// @Description Starts a session and sets the session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} errorResponse
// @Router /login [post]
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "invalid credentials")
		return
	}
	admin := s.isAdmin(req.Username)
	if admin && subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admins[req.Username])) != 1 {
		s.log.Warn(ctx, "staff login rejected", "user", req.Username)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	sid, err := s.sessions.Create(ctx, req.Username)
	if err != nil {
		s.log.Error(ctx, "create session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, loginResponse{User: req.Username, Admin: admin})
}

// logoutHandler ends the session and drops its cart.
// @Summary Logout
// @Success 204
// @Security ApiKeyAuth
// @Router /logout [post]
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := potel.AddSpan(r.Context(), "logoutHandler")
	defer span.End()

	sess := sessionFrom(ctx)
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		s.log.Error(ctx, "delete session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	s.registry.Remove(sess.ID)
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

// notificationsHandler returns and clears the guest's pending notifications.
// @Summary Pending notifications
// @Produce json
// @Success 200 {array} notify.Notification
// @Security ApiKeyAuth
// @Router /notifications [get]
func (s *Server) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	_, span := potel.AddSpan(r.Context(), "notificationsHandler")
	defer span.End()

	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).Feed.Drain())
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey{}).(*session.Session)
	return sess
}

// authMiddleware ensures a valid session exists and attaches its state.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		user, err := s.sessions.User(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				s.log.Error(r.Context(), "lookup session", "error", err)
			}
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sess := s.registry.Get(c.Value, user)
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware lets only staff sessions through.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := sessionFrom(r.Context()); sess == nil || !s.isAdmin(sess.User) {
			writeError(w, http.StatusForbidden, "staff only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) isAdmin(user string) bool {
	_, ok := s.admins[user]
	return ok
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		if s.tracer != nil {
			ctx = potel.InjectTracing(ctx, s.tracer)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
