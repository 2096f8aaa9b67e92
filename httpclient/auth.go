package httpclient

import (
	"net/http"
	"strings"

	"github.com/kbukum/sdiscovery/errors"
)

const (
	AuthNone   = ""
	AuthBasic  = "basic"
	AuthBearer = "bearer"
)

// AuthConfig configures request authentication against the registry.
type AuthConfig struct {
	// Type is "basic" or "bearer". Empty disables authentication.
	Type     string `yaml:"type" mapstructure:"type"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Token    string `yaml:"token" mapstructure:"token"`
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// Validate checks that the fields required by Type are present.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	switch strings.ToLower(a.Type) {
	case AuthNone:
		return nil
	case AuthBasic:
		if a.Username == "" {
			return errors.InvalidConfig("httpclient: basic auth requires a username")
		}
	case AuthBearer:
		if a.Token == "" {
			return errors.InvalidConfig("httpclient: bearer auth requires a token")
		}
	default:
		return errors.InvalidConfig("httpclient: unknown auth type " + a.Type)
	}
	return nil
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch strings.ToLower(a.Type) {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	}
}
