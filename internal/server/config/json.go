package config

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/geauxvirtual/hapi/internal/flagx"
	"github.com/geauxvirtual/hapi/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenScheme           string         `json:"token_scheme"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	FileDir               string         `json:"file_dir"`
	TempDir               string         `json:"temp_dir"`
	BodyLimit             int64          `json:"body_limit"`
	FileLimit             int64          `json:"file_limit"`
	ArtifactBackend       string         `json:"artifact_backend"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If neither
// is set, no JSON file is loaded. An unreadable or invalid file is logged and
// ignored, leaving the earlier layers (the defaults) in place.
//
// The caller is expected to merge these values with defaults, environment
// variables, and command-line flags as part of the full configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		log.Printf("error reading config file %s: %v; using defaults", jsonConfigFile, err)
		return
	}

	if err := json.Unmarshal(file, c); err != nil {
		log.Printf("error parsing config file %s: %v; using defaults", jsonConfigFile, err)
		return
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenScheme = c.TokenScheme
	config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	config.FileDir = c.FileDir
	config.TempDir = c.TempDir
	config.BodyLimit = c.BodyLimit
	config.FileLimit = c.FileLimit
	config.ArtifactBackend = c.ArtifactBackend
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
