package config

import (
	"errors"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the API reads from the environment.
type Config struct {
	Env  string `mapstructure:"APP_ENV"`
	Port string `mapstructure:"API_PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	AccessSecret  string        `mapstructure:"JWT_ACCESS_SECRET"`
	AccessTTL     time.Duration `mapstructure:"JWT_ACCESS_TTL"`
	RefreshSecret string        `mapstructure:"JWT_REFRESH_SECRET"`
	RefreshTTL    time.Duration `mapstructure:"JWT_REFRESH_TTL"`

	UploadBackend      string `mapstructure:"UPLOAD_BACKEND"`
	UploadBasePath     string `mapstructure:"UPLOAD_BASE_PATH"`
	UploadPublicPrefix string `mapstructure:"UPLOAD_PUBLIC_PREFIX"`
	MaxImageSize       int64  `mapstructure:"MAX_IMAGE_SIZE"`
	S3Bucket           string `mapstructure:"S3_BUCKET_NAME"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSAccessKey       string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey       string `mapstructure:"AWS_SECRET_ACCESS_KEY"`

	CORSOrigins     string `mapstructure:"CORS_ORIGINS"`
	SuperAdminEmail string `mapstructure:"SUPER_ADMIN_EMAIL"`
	TextbeltAPIKey  string `mapstructure:"TEXTBELT_API_KEY"`
}

var defaults = map[string]any{
	"APP_ENV":               "development",
	"API_PORT":              "8080",
	"MONGO_URI":             "mongodb://localhost:27017",
	"MONGO_DATABASE":        "patientng",
	"JWT_ACCESS_SECRET":     "",
	"JWT_ACCESS_TTL":        "15m",
	"JWT_REFRESH_SECRET":    "",
	"JWT_REFRESH_TTL":       "168h",
	"UPLOAD_BACKEND":        "local",
	"UPLOAD_BASE_PATH":      "uploads",
	"UPLOAD_PUBLIC_PREFIX":  "/uploads",
	"MAX_IMAGE_SIZE":        2 << 20,
	"S3_BUCKET_NAME":        "",
	"AWS_REGION":            "us-east-1",
	"AWS_ACCESS_KEY_ID":     "",
	"AWS_SECRET_ACCESS_KEY": "",
	"CORS_ORIGINS":          "http://localhost:3000",
	"SUPER_ADMIN_EMAIL":     "ipatient_admin@ipatient.com",
	"TEXTBELT_API_KEY":      "",
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		glog.Info("No .env file found, relying on environment variables.")
	}
	return FromViper(viper.New())
}

// FromViper decodes a Config out of v. Every key gets a default so that
// AutomaticEnv can see it during Unmarshal.
func FromViper(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.UploadBackend = strings.ToLower(strings.TrimSpace(cfg.UploadBackend))
	return &cfg, nil
}

// Validate rejects configurations the API cannot safely start with.
func (c *Config) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	switch c.UploadBackend {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET_NAME is required for the s3 upload backend")
		}
	default:
		return errors.New("UPLOAD_BACKEND must be local or s3")
	}
	if c.MaxImageSize <= 0 {
		return errors.New("MAX_IMAGE_SIZE must be positive")
	}
	return nil
}

// Origins splits CORS_ORIGINS into individual origins.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
