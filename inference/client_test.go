package inference

import (
	"context"
	"errors"
	"testing"

	"gopkg.in/h2non/gock.v1"

	"github.com/MrBreathe/mrbreathe/models/user"
)

const testEndpoint = "http://model.local"

func testClient() *Client {
	c := New(testEndpoint)
	gock.InterceptClient(c.http)
	return c
}

func testProfile() user.Profile {
	return user.Profile{FirstName: "A", LastName: "B", Age: 30, Sex: "male", HeightIn: 70.0, WeightLbs: 180.0}
}

func TestValidateBreathData(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		wantErr bool
	}{
		{"ok", []float64{1.2, 3.4}, false},
		{"empty", []float64{}, true},
		{"nil", nil, true},
		{"zero element", []float64{1.2, 0}, true},
		{"negative element", []float64{-0.5, 3.4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateBreathData(tt.data); (err != nil) != tt.wantErr {
				t.Errorf("ValidateBreathData() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Predict(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{"success passes body through", 200, "Prediction result", "Prediction result", nil},
		{"created counts as success", 201, "ok", "ok", nil},
		{"unprocessable input", 422, `{"detail":"bad input"}`, "", ErrInvalidInput},
		{"internal error", 500, "boom", "", ErrModelInternal},
		{"unavailable", 503, "", "", ErrModelUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()
			gock.New(testEndpoint).
				Post("/predict").
				Reply(tt.status).
				BodyString(tt.body)

			c := testClient()
			got, err := c.Predict(context.Background(), testProfile(), []float64{1.2, 3.4})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Client.Predict() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Client.Predict() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Predict_GatewayError(t *testing.T) {
	defer gock.Off()
	gock.New(testEndpoint).
		Post("/predict").
		Reply(418).
		BodyString("teapot")

	c := testClient()
	_, err := c.Predict(context.Background(), testProfile(), []float64{1.2})

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("Client.Predict() error = %v, want *GatewayError", err)
	}
	if gwErr.StatusCode != 418 || gwErr.Body != "teapot" {
		t.Errorf("GatewayError = %+v, want status 418 body %q", gwErr, "teapot")
	}
}

func TestClient_Predict_RequestPayload(t *testing.T) {
	defer gock.Off()
	// sex is lower-cased and fields use the model service's wire names
	gock.New(testEndpoint).
		Post("/predict").
		JSON(map[string]interface{}{
			"height_in":   70.0,
			"weight_lbs":  180.0,
			"sex":         "male",
			"breath_data": []float64{1.2, 3.4},
		}).
		Reply(200).
		BodyString("ok")

	profile := testProfile()
	profile.Sex = "Male"

	c := testClient()
	if _, err := c.Predict(context.Background(), profile, []float64{1.2, 3.4}); err != nil {
		t.Fatalf("Client.Predict() error = %v", err)
	}
	if !gock.IsDone() {
		t.Error("Client.Predict() did not send the expected payload")
	}
}

func TestClient_Predict_RejectsBeforeCall(t *testing.T) {
	// no mock is registered: a downstream attempt would fail with a transport
	// error instead of ErrInvalidBreathData
	c := testClient()
	_, err := c.Predict(context.Background(), testProfile(), []float64{})
	if !errors.Is(err, ErrInvalidBreathData) {
		t.Errorf("Client.Predict() error = %v, want ErrInvalidBreathData", err)
	}
}
