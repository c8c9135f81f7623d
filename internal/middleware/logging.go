package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/Varun5711/campusapi/internal/events"
	"github.com/Varun5711/campusapi/internal/logger"
	"github.com/google/uuid"
)

const requestIDKey contextKey = "request_id"

const publishTimeout = 500 * time.Millisecond

type EventPublisher interface {
	Publish(ctx context.Context, event *events.RequestEvent) error
}

// RequestID reuses an inbound X-Request-ID or assigns a new one and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status = code
		s.wrote = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wrote {
		s.status = http.StatusOK
		s.wrote = true
	}
	return s.ResponseWriter.Write(b)
}

// identity is filled in by the auth middleware further down the chain so the
// outer logger can see who made the request.
type identity struct {
	userID int64
}

const identityKey contextKey = "identity"

func recordIdentity(ctx context.Context, userID int64) {
	if id, ok := ctx.Value(identityKey).(*identity); ok {
		id.userID = userID
	}
}

type RequestLogger struct {
	log       *logger.Logger
	publisher EventPublisher
	now       func() time.Time
}

// NewRequestLogger logs one line per request and, when publisher is non-nil,
// publishes the same record as a request event.
func NewRequestLogger(log *logger.Logger, publisher EventPublisher) *RequestLogger {
	return &RequestLogger{
		log:       log,
		publisher: publisher,
		now:       time.Now,
	}
}

func (l *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := l.now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		who := &identity{}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), identityKey, who)))

		duration := l.now().Sub(start)
		event := &events.RequestEvent{
			RequestID:  GetRequestID(r.Context()),
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     rec.status,
			DurationMs: duration.Milliseconds(),
			ClientIP:   ClientIP(r),
			UserAgent:  r.UserAgent(),
			UserID:     who.userID,
			Timestamp:  start.UnixMilli(),
		}

		l.log.Info("%s %s %d %s ip=%s request_id=%s",
			event.Method, event.Path, event.Status, duration.Round(time.Microsecond), event.ClientIP, event.RequestID)

		if l.publisher == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), publishTimeout)
		defer cancel()
		if err := l.publisher.Publish(ctx, event); err != nil {
			l.log.Warn("Failed to publish request event: %v", err)
		}
	})
}
