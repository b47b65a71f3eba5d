// Package httpx holds the JSON response and request helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	"guestbook/cmd/internal/kinds"
)

// DefaultMaxBodyBytes caps request bodies when a handler is configured with zero.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrorBody is the error payload for non-data routes.
type ErrorBody struct {
	Error string `json:"error"`
}

// DataBody is the envelope for data routes. Error is null on success.
type DataBody struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// WriteData writes {"data": data, "error": null}.
func WriteData(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, DataBody{Data: data})
}

// WriteDataError writes {"data": null, "error": msg}.
func WriteDataError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, DataBody{Error: &msg})
}

// DecodeJSON decodes exactly one JSON object from the body. Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure there is no extra data after the first JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}

// AllowMethods writes 405 with an Allow header unless r uses one of methods.
func AllowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	w.WriteHeader(http.StatusMethodNotAllowed)
	return false
}

// StatusFor maps the error taxonomy to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case kinds.IsValidation(err):
		return http.StatusBadRequest
	case kinds.IsAuthDenied(err):
		return http.StatusForbidden
	case kinds.IsStorage(err):
		return http.StatusInternalServerError
	case kinds.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor is the client-facing text for err. Causes of storage and unknown errors are not exposed.
func MessageFor(err error) string {
	var ve kinds.ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	if kinds.IsStorage(err) || StatusFor(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	var oe kinds.OpError
	if errors.As(err, &oe) && oe.Msg != "" {
		return oe.Msg
	}
	return err.Error()
}

// ClientIP returns the caller address, honouring X-Forwarded-For / X-Real-IP when trustProxy is set.
func ClientIP(r *http.Request, trustProxy bool) net.IP {
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip
		}
	}
	return nil
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for _, p := range strings.Split(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}
