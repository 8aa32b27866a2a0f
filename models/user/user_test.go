package user

import (
	"testing"
)

func intp(v int) *int { return &v }

func f64p(v float64) *float64 { return &v }

func strp(s string) *string { return &s }

func validCreateRequest() CreateRequest {
	return CreateRequest{
		Email:     "a@b.com",
		Password:  "p1",
		FirstName: "A",
		LastName:  "B",
		Age:       intp(30),
		Sex:       SexMale,
		HeightIn:  f64p(70.0),
		WeightLbs: f64p(180.0),
	}
}

func TestCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mod        func(*CreateRequest)
		wantFields []string
	}{
		{"ok", func(r *CreateRequest) {}, nil},
		{"ok with gender identity", func(r *CreateRequest) { r.GenderIdentity = "nonbinary" }, nil},
		{"bad email", func(r *CreateRequest) { r.Email = "not-an-email" }, []string{"email"}},
		{"blank password", func(r *CreateRequest) { r.Password = "  " }, []string{"password"}},
		{"blank first name", func(r *CreateRequest) { r.FirstName = "" }, []string{"first_name"}},
		{"age too high", func(r *CreateRequest) { r.Age = intp(200) }, []string{"age"}},
		{"age negative", func(r *CreateRequest) { r.Age = intp(-1) }, []string{"age"}},
		{"age missing", func(r *CreateRequest) { r.Age = nil }, []string{"age"}},
		{"sex other", func(r *CreateRequest) { r.Sex = "other" }, []string{"sex"}},
		{"height negative", func(r *CreateRequest) { r.HeightIn = f64p(-1) }, []string{"height_in"}},
		{"weight zero", func(r *CreateRequest) { r.WeightLbs = f64p(0) }, []string{"weight_lbs"}},
		{"collects all violations", func(r *CreateRequest) {
			r.Age = intp(200)
			r.Sex = "other"
			r.HeightIn = f64p(-1)
		}, []string{"age", "sex", "height_in"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mod(&req)
			fe := req.Validate()
			if tt.wantFields == nil {
				if fe != nil {
					t.Errorf("CreateRequest.Validate() = %v, want nil", fe)
				}
				return
			}
			if len(fe) != len(tt.wantFields) {
				t.Errorf("CreateRequest.Validate() = %v, want fields %v", fe, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := fe[f]; !ok {
					t.Errorf("CreateRequest.Validate() missing field %q in %v", f, fe)
				}
			}
		})
	}
}

func TestUpdateRequest_Validate(t *testing.T) {
	tests := []struct {
		name       string
		req        UpdateRequest
		wantFields []string
	}{
		{"ok empty patch", UpdateRequest{Email: "a@b.com"}, nil},
		{"ok sparse", UpdateRequest{Email: "a@b.com", Age: intp(31), WeightLbs: f64p(175.5)}, nil},
		{"bad email", UpdateRequest{Email: "nope"}, []string{"email"}},
		{"age out of range", UpdateRequest{Email: "a@b.com", Age: intp(151)}, []string{"age"}},
		{"sex other", UpdateRequest{Email: "a@b.com", Sex: strp("other")}, []string{"sex"}},
		{"blank last name", UpdateRequest{Email: "a@b.com", LastName: strp(" ")}, []string{"last_name"}},
		{"multiple", UpdateRequest{Email: "a@b.com", Age: intp(200), HeightIn: f64p(-1)}, []string{"age", "height_in"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := tt.req.Validate()
			if tt.wantFields == nil {
				if fe != nil {
					t.Errorf("UpdateRequest.Validate() = %v, want nil", fe)
				}
				return
			}
			if len(fe) != len(tt.wantFields) {
				t.Errorf("UpdateRequest.Validate() = %v, want fields %v", fe, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := fe[f]; !ok {
					t.Errorf("UpdateRequest.Validate() missing field %q in %v", f, fe)
				}
			}
		})
	}
}

func TestNewUser(t *testing.T) {
	req := validCreateRequest()
	req.Email = "A@B.com"
	u := NewUser(req)

	if u.ID != u.Profile.ID {
		t.Errorf("NewUser() profile ID = %v, want shared user ID %v", u.Profile.ID, u.ID)
	}
	if u.Email != "a@b.com" {
		t.Errorf("NewUser() email = %q, want normalized %q", u.Email, "a@b.com")
	}
	if u.Profile.Age != 30 || u.Profile.HeightIn != 70.0 || u.Profile.WeightLbs != 180.0 {
		t.Errorf("NewUser() profile = %+v, want request fields carried over", u.Profile)
	}
}
