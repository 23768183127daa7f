package registryauth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Header is the request header carrying encoded registry credentials.
const Header = "X-Registry-Auth"

// AuthConfig mirrors the Engine API registry auth configuration.
type AuthConfig struct {
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	Email         string `json:"email,omitempty"`
	ServerAddress string `json:"serveraddress,omitempty"`

	// IdentityToken is a bearer token obtained from a registry login. When
	// set, it takes the place of username/password.
	IdentityToken string `json:"identitytoken,omitempty"`

	// RegistryToken is a pre-fetched bearer token passed through verbatim.
	RegistryToken string `json:"registrytoken,omitempty"`
}

// Encode serializes the configuration into the header value format. A zero
// configuration encodes to the empty string, which callers should treat as
// "send no header".
func Encode(auth AuthConfig) (string, error) {
	if auth == (AuthConfig{}) {
		return "", nil
	}
	buf, err := json.Marshal(auth)
	if err != nil {
		return "", fmt.Errorf("registryauth: marshal auth config: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

// Decode reverses Encode. Useful in test daemons and credential helpers.
func Decode(value string) (AuthConfig, error) {
	var auth AuthConfig
	buf, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return auth, fmt.Errorf("registryauth: decode header value: %w", err)
	}
	if err := json.Unmarshal(buf, &auth); err != nil {
		return auth, fmt.Errorf("registryauth: unmarshal auth config: %w", err)
	}
	return auth, nil
}

// Expired reports whether the configuration's identity token is a JWT whose
// exp claim has passed. Tokens that are not JWTs, or JWTs without an exp
// claim, are assumed valid; the signature is never checked because only the
// registry can verify it.
func Expired(auth AuthConfig, now time.Time) bool {
	if auth.IdentityToken == "" {
		return false
	}
	parser := gojwt.NewParser()
	token, _, err := parser.ParseUnverified(auth.IdentityToken, gojwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}
