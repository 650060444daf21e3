package handlers

import (
	"encoding/json"
	"net/http"
)

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	Service   string `json:"service"`
}

// HandleVersion returns the build information for the service.
func HandleVersion(version, gitCommit, buildDate string) http.HandlerFunc {
	// Pre-create the response to avoid allocating on every request
	response := VersionResponse{
		Version:   version,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		Service:   "qr-sign-server",
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode version", http.StatusInternalServerError)
			return
		}
	}
}
