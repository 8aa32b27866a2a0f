package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/inference"
	"github.com/MrBreathe/mrbreathe/models/counter"
)

var (
	modelOnce   sync.Once
	modelClient *inference.Client
)

// model returns the shared inference client, created from MODEL_ENDPOINT on
// first use so the .env file has been loaded by then.
func model() *inference.Client {
	modelOnce.Do(func() {
		modelClient = inference.New(os.Getenv("MODEL_ENDPOINT"))
	})
	return modelClient
}

// Predict runs an inference for the user identified by the email in the path.
// The request body is a JSON array of positive decimals (the breath series);
// the model's raw response body is passed through verbatim on success.
func Predict(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	email := ps.ByName("email")

	var breathData []float64
	if err := json.NewDecoder(r.Body).Decode(&breathData); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Request body must be a JSON array of numbers"})
		return
	}

	// Reject bad measurements before touching the profile store or the model.
	if err := inference.ValidateBreathData(breathData); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	profile, err := manager.GetProfile(r.Context(), email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := model().Predict(r.Context(), profile, breathData)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	counter.Incr(counter.Predict)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(result))
}

// writeGatewayError maps inference errors onto the HTTP taxonomy.
func writeGatewayError(w http.ResponseWriter, err error) {
	var gwErr *inference.GatewayError
	switch {
	case errors.Is(err, inference.ErrInvalidBreathData):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, inference.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "Model service rejected the inference input"})
	case errors.Is(err, inference.ErrModelUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Model service is unavailable"})
	case errors.Is(err, inference.ErrModelInternal):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Model service failed"})
	case errors.As(err, &gwErr):
		log.WithFields(log.Fields{
			"status": gwErr.StatusCode,
			"body":   gwErr.Body,
		}).Error("Model service gateway error")
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Error communicating with model service"})
	default:
		writeDomainError(w, err)
	}
}
