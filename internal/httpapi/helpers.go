package httpapi

import (
	"encoding/json"
	"net/http"
)

// writeJSON encodes v as the 200 response body. Handlers that need a
// different status code use WriteJSON instead.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}

// methodMux dispatches on the request method and answers 405 for anything
// not in the map.
func methodMux(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.Method]; ok {
			h(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
