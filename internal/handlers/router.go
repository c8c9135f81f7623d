package handlers

import (
	"net/http"

	"github.com/Varun5711/campusapi/internal/config"
	"github.com/Varun5711/campusapi/internal/healthcheck"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/Varun5711/campusapi/internal/middleware"
	"github.com/Varun5711/campusapi/internal/ratelimit"
	"github.com/Varun5711/campusapi/internal/service"
	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Services  *service.Services
	Tokens    middleware.TokenValidator
	RateStore ratelimit.Store
	RateLimit config.RateLimitConfig
	// Publisher may be nil, in which case request events are only logged.
	Publisher middleware.EventPublisher
	Checks    map[string]healthcheck.Check
	Log       *logger.Logger
}

// NewRouter wires every route. Login, token refresh and sign-up share the
// strict limiter; all other /api routes count against the general one.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Log
	svc := cfg.Services

	authMW := middleware.NewAuthMiddleware(cfg.Tokens)
	general := middleware.NewRateLimiter(cfg.RateStore, "general", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	strict := middleware.NewRateLimiter(cfg.RateStore, "auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)

	limited := func(h http.HandlerFunc) http.Handler {
		return strict.Middleware(h)
	}
	public := func(h http.HandlerFunc) http.Handler {
		return general.Middleware(h)
	}
	optional := func(h http.HandlerFunc) http.Handler {
		return general.Middleware(authMW.OptionalAuth(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return general.Middleware(authMW.RequireAuth(h))
	}

	authH := NewAuthHandler(svc.Auth, log.With("handler", "auth"))
	userH := NewUserHandler(svc.Users, log.With("handler", "users"))
	productH := NewProductHandler(svc.Products, log.With("handler", "products"))
	purchaseH := NewPurchaseHandler(svc.Purchases, log.With("handler", "purchases"))
	studentH := NewStudentHandler(svc.Students, log.With("handler", "students"))
	classH := NewCourseClassHandler(svc.CourseClasses, log.With("handler", "course-classes"))
	enrollmentH := NewEnrollmentHandler(svc.Enrollments, log.With("handler", "enrollments"))
	healthH := NewHealthHandler(cfg.Checks, log.With("handler", "health"))

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)

	r.HandleFunc("/health", healthH.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.Handle("/auth/login", limited(authH.Login)).Methods(http.MethodPost)
	api.Handle("/auth/refresh-token", limited(authH.RefreshToken)).Methods(http.MethodPost)
	api.Handle("/auth/logout", public(authH.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", protected(authH.Me)).Methods(http.MethodGet)
	api.Handle("/auth/change-password", protected(authH.ChangePassword)).Methods(http.MethodPost)

	api.Handle("/users", limited(userH.Create)).Methods(http.MethodPost)
	api.Handle("/users", protected(userH.List)).Methods(http.MethodGet)
	api.Handle("/users/{id}", protected(userH.Get)).Methods(http.MethodGet)
	api.Handle("/users/{id}", protected(userH.Update)).Methods(http.MethodPut)
	api.Handle("/users/{id}", protected(userH.Delete)).Methods(http.MethodDelete)

	api.Handle("/products", optional(productH.List)).Methods(http.MethodGet)
	api.Handle("/products", protected(productH.Create)).Methods(http.MethodPost)
	api.Handle("/products/{id}", optional(productH.Get)).Methods(http.MethodGet)
	api.Handle("/products/{id}", protected(productH.Update)).Methods(http.MethodPut)
	api.Handle("/products/{id}", protected(productH.Delete)).Methods(http.MethodDelete)
	api.Handle("/products/{id}/qrcode", public(productH.QRCode)).Methods(http.MethodGet)

	api.Handle("/purchases", protected(purchaseH.Create)).Methods(http.MethodPost)
	api.Handle("/purchases", protected(purchaseH.List)).Methods(http.MethodGet)
	api.Handle("/purchases/user/{userId}", protected(purchaseH.ListByUser)).Methods(http.MethodGet)
	api.Handle("/purchases/{id}", protected(purchaseH.Get)).Methods(http.MethodGet)
	api.Handle("/purchases/{id}/status", protected(purchaseH.UpdateStatus)).Methods(http.MethodPatch)

	api.Handle("/students", protected(studentH.Create)).Methods(http.MethodPost)
	api.Handle("/students", protected(studentH.List)).Methods(http.MethodGet)
	api.Handle("/students/user/{userId}", protected(studentH.GetByUser)).Methods(http.MethodGet)
	api.Handle("/students/{id}", protected(studentH.Get)).Methods(http.MethodGet)
	api.Handle("/students/{id}", protected(studentH.Update)).Methods(http.MethodPut)
	api.Handle("/students/{id}", protected(studentH.Delete)).Methods(http.MethodDelete)

	api.Handle("/course-classes", protected(classH.Create)).Methods(http.MethodPost)
	api.Handle("/course-classes", protected(classH.List)).Methods(http.MethodGet)
	api.Handle("/course-classes/{id}", protected(classH.Get)).Methods(http.MethodGet)
	api.Handle("/course-classes/{id}", protected(classH.Update)).Methods(http.MethodPut)
	api.Handle("/course-classes/{id}", protected(classH.Delete)).Methods(http.MethodDelete)

	api.Handle("/enrollments", protected(enrollmentH.Create)).Methods(http.MethodPost)
	api.Handle("/enrollments", protected(enrollmentH.List)).Methods(http.MethodGet)
	api.Handle("/enrollments/student/{studentId}", protected(enrollmentH.ListByStudent)).Methods(http.MethodGet)
	api.Handle("/enrollments/course-class/{courseClassId}", protected(enrollmentH.ListByCourseClass)).Methods(http.MethodGet)
	api.Handle("/enrollments/{id}", protected(enrollmentH.Get)).Methods(http.MethodGet)
	api.Handle("/enrollments/{id}", protected(enrollmentH.Update)).Methods(http.MethodPut)
	api.Handle("/enrollments/{id}", protected(enrollmentH.Delete)).Methods(http.MethodDelete)

	requestLogger := middleware.NewRequestLogger(log.With("component", "http"), cfg.Publisher)

	var h http.Handler = r
	h = middleware.Recovery(log)(h)
	h = requestLogger.Middleware(h)
	h = middleware.RequestID(h)
	return h
}
