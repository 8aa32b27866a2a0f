// Package inference proxies profile-derived feature vectors to the external
// model service and translates its HTTP outcomes into domain errors.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/MrBreathe/mrbreathe/models/user"
)

var (
	// ErrInvalidBreathData is returned before any downstream call when the
	// measurement series is empty or contains a non-positive value.
	ErrInvalidBreathData = errors.New("breath data must be a non-empty series of positive values")
	// ErrInvalidInput means the model service rejected the assembled payload.
	ErrInvalidInput = errors.New("model service rejected inference input")
	// ErrModelInternal means the model service failed internally.
	ErrModelInternal = errors.New("model service internal error")
	// ErrModelUnavailable means the model service is temporarily unavailable.
	ErrModelUnavailable = errors.New("model service unavailable")
)

// GatewayError is returned for any other non-2xx downstream status. It keeps
// the status and body for diagnostics.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("model service returned status %d: %s", e.StatusCode, e.Body)
}

// modelRequest is the wire format the model service accepts on POST /predict.
type modelRequest struct {
	HeightIn   float64   `json:"height_in"`
	WeightLbs  float64   `json:"weight_lbs"`
	Sex        string    `json:"sex"`
	BreathData []float64 `json:"breath_data"`
}

// Client calls the model service. One outbound request per Predict call, no
// retries.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a Client for the model service at endpoint.
func New(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidateBreathData checks the measurement series the way the model service
// expects it: at least one element, every element strictly positive.
func ValidateBreathData(breathData []float64) error {
	if len(breathData) == 0 {
		return ErrInvalidBreathData
	}
	for _, v := range breathData {
		if v <= 0 {
			return ErrInvalidBreathData
		}
	}
	return nil
}

// Predict assembles the model request from the profile and the caller's
// measurement series, posts it to {endpoint}/predict, and returns the raw
// response body verbatim on success.
func (c *Client) Predict(ctx context.Context, profile user.Profile, breathData []float64) (string, error) {
	if err := ValidateBreathData(breathData); err != nil {
		return "", err
	}

	body, err := json.Marshal(modelRequest{
		HeightIn:   profile.HeightIn,
		WeightLbs:  profile.WeightLbs,
		Sex:        strings.ToLower(profile.Sex),
		BreathData: breathData,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("model service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading model service response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return string(respBody), nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return "", ErrInvalidInput
	case resp.StatusCode == http.StatusInternalServerError:
		return "", ErrModelInternal
	case resp.StatusCode == http.StatusServiceUnavailable:
		return "", ErrModelUnavailable
	default:
		log.WithFields(log.Fields{
			"status": resp.StatusCode,
			"body":   string(respBody),
		}).Warn("Model service returned unexpected status")
		return "", &GatewayError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
}
