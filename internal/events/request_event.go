package events

import (
	"fmt"
	"strconv"
)

// RequestEvent is one handled HTTP request as carried on the request stream.
type RequestEvent struct {
	RequestID  string
	Method     string
	Path       string
	Status     int
	DurationMs int64
	ClientIP   string
	UserAgent  string
	UserID     int64 // 0 for anonymous callers
	Timestamp  int64 // unix milliseconds
}

func (e *RequestEvent) Values() map[string]interface{} {
	fields := map[string]interface{}{
		"request_id":  e.RequestID,
		"method":      e.Method,
		"path":        e.Path,
		"status":      e.Status,
		"duration_ms": e.DurationMs,
		"timestamp":   e.Timestamp,
	}

	if e.ClientIP != "" {
		fields["ip"] = e.ClientIP
	}
	if e.UserAgent != "" {
		fields["user_agent"] = e.UserAgent
	}
	if e.UserID != 0 {
		fields["user_id"] = e.UserID
	}

	return fields
}

// ParseRequestEvent rebuilds an event from stream entry values. Redis hands
// every value back as a string.
func ParseRequestEvent(values map[string]interface{}) (*RequestEvent, error) {
	e := &RequestEvent{
		RequestID: stringValue(values, "request_id"),
		Method:    stringValue(values, "method"),
		Path:      stringValue(values, "path"),
		ClientIP:  stringValue(values, "ip"),
		UserAgent: stringValue(values, "user_agent"),
	}

	if e.Method == "" || e.Path == "" {
		return nil, fmt.Errorf("request event missing method or path")
	}

	var err error
	if e.Timestamp, err = intValue(values, "timestamp"); err != nil {
		return nil, err
	}
	if e.DurationMs, err = intValue(values, "duration_ms"); err != nil {
		return nil, err
	}
	if e.UserID, err = intValue(values, "user_id"); err != nil {
		return nil, err
	}
	status, err := intValue(values, "status")
	if err != nil {
		return nil, err
	}
	e.Status = int(status)

	return e, nil
}

func stringValue(values map[string]interface{}, key string) string {
	v, ok := values[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func intValue(values map[string]interface{}, key string) (int64, error) {
	s := stringValue(values, key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}
