package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// env variable names, matching the official docker CLI.
const (
	envHost      = "DOCKER_HOST"
	envTLSVerify = "DOCKER_TLS_VERIFY"
	envCertPath  = "DOCKER_CERT_PATH"
	envConfigDir = "DOCKER_CONFIG"
	envTimeout   = "DOCKERKIT_TIMEOUT"
)

// FromEnv captures the Docker environment into a Config. The environment is
// read exactly once; the returned value is immutable thereafter.
//
// An optional .env file in the working directory is loaded first (existing
// process environment wins), mirroring how the CLI tooling bootstraps local
// development environments.
func FromEnv() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		// Load, don't Overload: real environment takes precedence.
		_ = godotenv.Load(".env")
	}

	v := viper.New()
	for _, key := range []string{envHost, envTLSVerify, envCertPath, envConfigDir, envTimeout} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Host:      v.GetString(envHost),
		TLSVerify: parseTLSVerify(v.GetString(envTLSVerify)),
		CertPath:  v.GetString(envCertPath),
		ConfigDir: v.GetString(envConfigDir),
		Timeout:   parseTimeout(v.GetString(envTimeout)),
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseTLSVerify treats any non-empty value as enabled, the way the docker
// CLI does. "0" and "false" are honored as explicit opt-outs.
func parseTLSVerify(raw string) bool {
	if raw == "" {
		return false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return true
}

func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
