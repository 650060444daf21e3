package qrsign

// responses.go provides helper functions for sending HTTP responses from
// the API handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondWithJSON sends payload as a JSON body with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// headers are already written, just log it
			slog.Error("failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}

// RespondWithStatusCodeOnly sends a response with only a status code.
func RespondWithStatusCodeOnly(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}
