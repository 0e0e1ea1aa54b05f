package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/matst80/location-listing/pkg/common/jsoncompat"
)

// HttpError carries the status code a handler error should be reported with.
type HttpError struct {
	Status int
	Err    error
}

func (e *HttpError) Error() string {
	return e.Err.Error()
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func WithStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	return &HttpError{Status: status, Err: err}
}

// JsonHandler writes the value returned by fn as json, or the error with the
// status from an HttpError (500 otherwise).
func JsonHandler(fn func(w http.ResponseWriter, r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Content-Type", "application/json")

		data, err := fn(w, r)
		if err != nil {
			status := http.StatusInternalServerError
			var httpErr *HttpError
			if errors.As(err, &httpErr) {
				status = httpErr.Status
			}
			if status >= http.StatusInternalServerError {
				log.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
			}
			WriteJson(w, status, map[string]string{"error": err.Error()})
			return
		}
		WriteJson(w, http.StatusOK, data)
	}
}

func WriteJson(w http.ResponseWriter, status int, data any) {
	b, err := jsoncompat.Marshal(data)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	w.Write(b)
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}
