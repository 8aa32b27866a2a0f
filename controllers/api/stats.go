package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/models/stats"
)

// GetUsageStats returns signup/inference usage statistics.
func GetUsageStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	usage, err := stats.Usage(r.Context())
	if err != nil {
		log.WithError(err).Error("Usage stats query failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to load usage stats"})
		return
	}

	writeJSON(w, http.StatusOK, usage)
}
