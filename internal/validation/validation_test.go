package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type advocacyForm struct {
	HospitalName    string  `json:"hospitalName" label:"hospital name"`
	HospitalAddress string  `json:"hospitalAddress" binding:"required" label:"hospital address"`
	Rating          *int    `json:"rating" binding:"omitempty,min=1,max=5" label:"Rating"`
	Email           *string `json:"email" binding:"omitempty,email"`
}

func TestMessage(t *testing.T) {
	Setup()
	six, email := 6, "nope"

	tests := []struct {
		name string
		in   advocacyForm
		want string
	}{
		{"required", advocacyForm{}, `"hospital address" is required`},
		{"max", advocacyForm{HospitalAddress: "x", Rating: &six}, `"Rating" must be less than or equal to 5`},
		{"json name fallback", advocacyForm{HospitalAddress: "x", Email: &email}, `"email" must be a valid email`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tc.in)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if got := Message(err); got != tc.want {
				t.Errorf("Message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMessageNonValidation(t *testing.T) {
	if got := Message(errors.New("EOF")); got != "Invalid request body." {
		t.Errorf("Message = %q", got)
	}
}
