package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/policy"
)

type fakeAuth map[string]*models.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, apperr.Unauthorized("Invalid token.")
}

func router(auth Authenticator, capability policy.Capability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorEnvelope())
	r.GET("/x", Authenticate(auth), RequireCapability(capability), func(c *gin.Context) {
		c.String(http.StatusOK, Caller(c).Email)
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
	})
	return r
}

func TestAuthenticate(t *testing.T) {
	auth := fakeAuth{
		"blogger":  {Email: "b@x.co", Active: true, UserType: []models.UserType{models.TypeBlogger}},
		"plain":    {Email: "p@x.co", Active: true},
		"inactive": {Email: "i@x.co", UserType: []models.UserType{models.TypeBlogger}},
	}
	r := router(auth, policy.WriteBlog)

	for _, tc := range []struct {
		header string
		status int
		body   string
	}{
		{"", http.StatusUnauthorized, ""},
		{"Token blogger", http.StatusUnauthorized, ""},
		{"Bearer nobody", http.StatusUnauthorized, ""},
		{"Bearer plain", http.StatusUnauthorized, ""},
		{"Bearer inactive", http.StatusUnauthorized, ""},
		{"Bearer blogger", http.StatusOK, "b@x.co"},
	} {
		req := httptest.NewRequest("GET", "/x", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tc.status {
			t.Errorf("%q: status = %d, want %d", tc.header, w.Code, tc.status)
		}
		if tc.body != "" && w.Body.String() != tc.body {
			t.Errorf("%q: body = %q", tc.header, w.Body.String())
		}
	}
}

func TestErrorEnvelopeHidesInternalErrors(t *testing.T) {
	r := router(fakeAuth{}, policy.Authenticated)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	var got apperr.Error
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusInternalServerError || got != *apperr.Internal {
		t.Errorf("got %d %+v", w.Code, got)
	}
}

func TestIdentify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := fakeAuth{
		"plain":    {Email: "p@x.co", Active: true},
		"inactive": {Email: "i@x.co"},
	}
	r := gin.New()
	r.Use(ErrorEnvelope())
	r.GET("/x", Identify(auth), func(c *gin.Context) {
		if u := Caller(c); u != nil {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	for header, want := range map[string]string{
		"":                "anonymous",
		"Bearer nobody":   "anonymous",
		"Token plain":     "anonymous",
		"Bearer inactive": "anonymous",
		"Bearer plain":    "p@x.co",
	} {
		req := httptest.NewRequest("GET", "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("%q: %d %q, want %q", header, w.Code, w.Body.String(), want)
		}
	}
}
