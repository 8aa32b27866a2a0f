package user

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Sex values accepted by the model service.
const (
	SexMale   = "male"
	SexFemale = "female"
)

const (
	MinAge = 0
	MaxAge = 150
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User represents an account. The profile shares the account's ID and lives
// and dies with it.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Profile      Profile   `json:"profile"`
}

// Profile holds the health-profile fields sent to the model service.
type Profile struct {
	ID             uuid.UUID `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Age            int       `json:"age"`
	Sex            string    `json:"sex"`
	GenderIdentity string    `json:"gender_identity"`
	HeightIn       float64   `json:"height_in"`
	WeightLbs      float64   `json:"weight_lbs"`
}

// FieldErrors collects validation failures per field so a request reports
// every invalid field at once instead of failing on the first one.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fe))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// CreateRequest is the payload for registering a new user. Everything except
// gender_identity is required. Numeric fields are pointers so a missing field
// can be told apart from a zero.
type CreateRequest struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Age            *int     `json:"age"`
	Sex            string   `json:"sex"`
	GenderIdentity string   `json:"gender_identity"`
	HeightIn       *float64 `json:"height_in"`
	WeightLbs      *float64 `json:"weight_lbs"`
}

// Validate checks every field and returns the full set of violations.
func (r CreateRequest) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, r.Email)
	if strings.TrimSpace(r.Password) == "" {
		fe["password"] = "must not be blank"
	}
	checkName(fe, "first_name", r.FirstName)
	checkName(fe, "last_name", r.LastName)
	if r.Age == nil {
		fe["age"] = "is required"
	} else {
		checkAge(fe, *r.Age)
	}
	checkSex(fe, r.Sex)
	if r.HeightIn == nil {
		fe["height_in"] = "is required"
	} else {
		checkPositive(fe, "height_in", *r.HeightIn)
	}
	if r.WeightLbs == nil {
		fe["weight_lbs"] = "is required"
	} else {
		checkPositive(fe, "weight_lbs", *r.WeightLbs)
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// UpdateRequest is a sparse profile patch. Only non-nil fields are applied;
// the email identifies the target and cannot be changed.
type UpdateRequest struct {
	Email          string   `json:"email"`
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	Age            *int     `json:"age"`
	Sex            *string  `json:"sex"`
	GenderIdentity *string  `json:"gender_identity"`
	HeightIn       *float64 `json:"height_in"`
	WeightLbs      *float64 `json:"weight_lbs"`
}

// Validate checks the email and every provided field.
func (r UpdateRequest) Validate() FieldErrors {
	fe := FieldErrors{}
	checkEmail(fe, r.Email)
	if r.FirstName != nil {
		checkName(fe, "first_name", *r.FirstName)
	}
	if r.LastName != nil {
		checkName(fe, "last_name", *r.LastName)
	}
	if r.Age != nil {
		checkAge(fe, *r.Age)
	}
	if r.Sex != nil {
		checkSex(fe, *r.Sex)
	}
	if r.HeightIn != nil {
		checkPositive(fe, "height_in", *r.HeightIn)
	}
	if r.WeightLbs != nil {
		checkPositive(fe, "weight_lbs", *r.WeightLbs)
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// apply overwrites the profile fields present in the patch.
func (r UpdateRequest) apply(p *Profile) {
	if r.FirstName != nil {
		p.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		p.LastName = *r.LastName
	}
	if r.Age != nil {
		p.Age = *r.Age
	}
	if r.Sex != nil {
		p.Sex = *r.Sex
	}
	if r.GenderIdentity != nil {
		p.GenderIdentity = *r.GenderIdentity
	}
	if r.HeightIn != nil {
		p.HeightIn = *r.HeightIn
	}
	if r.WeightLbs != nil {
		p.WeightLbs = *r.WeightLbs
	}
}

// NewUser builds a fully linked user/profile pair from an already validated
// create request. The profile is keyed by the user's freshly generated ID, so
// a half-linked pair can never leave this constructor.
func NewUser(r CreateRequest) *User {
	id := uuid.New()
	return &User{
		ID:           id,
		Email:        NormalizeEmail(r.Email),
		PasswordHash: r.Password,
		Profile: Profile{
			ID:             id,
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			Age:            *r.Age,
			Sex:            r.Sex,
			GenderIdentity: r.GenderIdentity,
			HeightIn:       *r.HeightIn,
			WeightLbs:      *r.WeightLbs,
		},
	}
}

// NormalizeEmail lowercases an email so matching is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkEmail(fe FieldErrors, email string) {
	if !emailPattern.MatchString(email) {
		fe["email"] = "must be a valid email address"
	}
}

func checkName(fe FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		fe[field] = "must not be blank"
	}
}

func checkAge(fe FieldErrors, age int) {
	if age < MinAge || age > MaxAge {
		fe["age"] = fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)
	}
}

func checkSex(fe FieldErrors, sex string) {
	if sex != SexMale && sex != SexFemale {
		fe["sex"] = "must be either 'male' or 'female'"
	}
}

func checkPositive(fe FieldErrors, field string, value float64) {
	if value <= 0 {
		fe[field] = "must be a positive value"
	}
}

// validateProfile re-checks a whole profile before it is persisted. Update
// paths run it after applying a patch so constraints hold on every write.
func validateProfile(p Profile) FieldErrors {
	fe := FieldErrors{}
	checkName(fe, "first_name", p.FirstName)
	checkName(fe, "last_name", p.LastName)
	checkAge(fe, p.Age)
	checkSex(fe, p.Sex)
	checkPositive(fe, "height_in", p.HeightIn)
	checkPositive(fe, "weight_lbs", p.WeightLbs)
	if len(fe) == 0 {
		return nil
	}
	return fe
}
