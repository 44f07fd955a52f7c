package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. Fields left unset in the
// environment stay at their zero value and do not override earlier layers.
type envConfig struct {
	EndpointAddr          string        `env:"HAPI_ADDR"`
	DatabaseDSN           string        `env:"HAPI_DATABASE_DSN"`
	SecretKey             string        `env:"HAPI_SECRET_KEY"`
	TokenScheme           string        `env:"HAPI_TOKEN_SCHEME"`
	TokenValidityDuration time.Duration `env:"HAPI_TOKEN_VALIDITY_DURATION"`
	FileDir               string        `env:"HAPI_FILE_DIR"`
	TempDir               string        `env:"HAPI_TEMP_DIR"`
	BodyLimit             int64         `env:"HAPI_BODY_LIMIT"`
	FileLimit             int64         `env:"HAPI_FILE_LIMIT"`
	ArtifactBackend       string        `env:"HAPI_ARTIFACT_BACKEND"`
	S3RootUser            string        `env:"HAPI_S3_ROOT_USER"`
	S3RootPassword        string        `env:"HAPI_S3_ROOT_PASSWORD"`
	S3Bucket              string        `env:"HAPI_S3_BUCKET"`
	S3Region              string        `env:"HAPI_S3_REGION"`
	S3BaseEndpoint        string        `env:"HAPI_S3_BASE_ENDPOINT"`
}

// parseEnv overlays HAPI_* environment variables onto config. Only variables
// that are actually set override the current values.
func parseEnv(config *Config) {
	var c envConfig
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenScheme != "" {
		config.TokenScheme = c.TokenScheme
	}
	if c.TokenValidityDuration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration
	}
	if c.FileDir != "" {
		config.FileDir = c.FileDir
	}
	if c.TempDir != "" {
		config.TempDir = c.TempDir
	}
	if c.BodyLimit != 0 {
		config.BodyLimit = c.BodyLimit
	}
	if c.FileLimit != 0 {
		config.FileLimit = c.FileLimit
	}
	if c.ArtifactBackend != "" {
		config.ArtifactBackend = c.ArtifactBackend
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
