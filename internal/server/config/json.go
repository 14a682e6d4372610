package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dpetukhov/srpvault/internal/flagx"
	"github.com/dpetukhov/srpvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "90s" and integer nanoseconds.
//
// It is an intermediate DTO used only for reading JSON configuration files;
// after unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LoginAttemptTTL             timex.Duration `json:"login_attempt_ttl"`
	SessionKeyValidityDuration  timex.Duration `json:"session_key_validity_duration"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or
// invalid file panics, since the server cannot start half-configured.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.LoginAttemptTTL = time.Duration(c.LoginAttemptTTL.Duration)
	config.SessionKeyValidityDuration = time.Duration(c.SessionKeyValidityDuration.Duration)
}
