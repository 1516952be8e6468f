package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if cfg.RefreshTTL != 168*time.Hour {
		t.Errorf("RefreshTTL = %v, want 168h", cfg.RefreshTTL)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want 15m", cfg.AccessTTL)
	}
	if cfg.UploadBackend != "local" {
		t.Errorf("UploadBackend = %q", cfg.UploadBackend)
	}
}

func TestFromViperEnvOverride(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("UPLOAD_BACKEND", " S3 ")
	t.Setenv("JWT_ACCESS_TTL", "1h")

	cfg, err := FromViper(viper.New())
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if cfg.Port != "9090" || cfg.UploadBackend != "s3" || cfg.AccessTTL != time.Hour {
		t.Errorf("got port=%q backend=%q ttl=%v", cfg.Port, cfg.UploadBackend, cfg.AccessTTL)
	}
}

func TestValidate(t *testing.T) {
	base := Config{AccessSecret: "a", RefreshSecret: "b", UploadBackend: "local", MaxImageSize: 1}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	same := base
	same.RefreshSecret = "a"
	if same.Validate() == nil {
		t.Error("equal secrets accepted")
	}

	s3 := base
	s3.UploadBackend = "s3"
	if s3.Validate() == nil {
		t.Error("s3 backend without bucket accepted")
	}
}

func TestOrigins(t *testing.T) {
	c := Config{CORSOrigins: "https://patient.ng, http://localhost:3000,,"}
	want := []string{"https://patient.ng", "http://localhost:3000"}
	if diff := cmp.Diff(c.Origins(), want); diff != "" {
		t.Errorf("Origins diff (-got +want)\n%s", diff)
	}
}
