// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/canonical/lms-bridge/internal/backends"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port      int    `envconfig:"port" default:"8080"`
	ApiPrefix string `envconfig:"api_prefix" default:"/lms/api/v1"`

	Backend                string `envconfig:"backend" default:"memory"`
	UsersBackend           string `envconfig:"users_backend"`
	EnrollmentsBackend     string `envconfig:"enrollments_backend"`
	GroupsBackend          string `envconfig:"groups_backend"`
	UserSocialAuthBackend  string `envconfig:"user_social_auth_backend"`
	AllowListAllUsers      bool   `envconfig:"allow_list_all_users" default:"true"`
	AllowListAllEnrollment bool   `envconfig:"allow_list_all_enrollments" default:"true"`

	SiteSettingsFile string `envconfig:"site_settings_file"`
	MemorySeedFile   string `envconfig:"memory_seed_file"`

	DBDriver          string        `envconfig:"db_driver" default:"pgx"`
	DSN               string        `envconfig:"DSN" default:""`
	DBMaxConns        int32         `envconfig:"db_max_conns" default:"10"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"1"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	PlatformURL     string        `envconfig:"platform_url"`
	PlatformToken   string        `envconfig:"platform_token"`
	PlatformTimeout time.Duration `envconfig:"platform_timeout" default:"15s"`

	AuthenticationEnabled bool   `envconfig:"authentication_enabled" default:"false"`
	AuthenticationIssuer  string `envconfig:"authentication_issuer"`
	AuthenticationJwksURL string `envconfig:"authentication_jwks_url"`
	// AuthenticationHMACSecret switches bearer verification to HS256 tokens
	AuthenticationHMACSecret string `envconfig:"authentication_hmac_secret"`
	SessionCookieName        string `envconfig:"session_cookie_name" default:"sessionid"`
	SessionKeyPrefix         string `envconfig:"session_key_prefix" default:"session:"`
	RedisAddr                string `envconfig:"redis_addr"`
	RedisPassword            string `envconfig:"redis_password"`
	RedisDB                  int    `envconfig:"redis_db" default:"0"`

	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiScheme     string `envconfig:"openfga_api_scheme" default:""`
	OpenfgaApiHost       string `envconfig:"openfga_api_host"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`

	SalesforceDomain         string `envconfig:"salesforce_domain"`
	SalesforceConsumerKey    string `envconfig:"salesforce_consumer_key"`
	SalesforceConsumerSecret string `envconfig:"salesforce_consumer_secret"`
}

// BackendSelection names the version tag serving each capability, unset
// capabilities fall back to Backend.
func (s *EnvSpec) BackendSelection() backends.Selection {
	pick := func(tag string) string {
		if tag = strings.TrimSpace(tag); tag != "" {
			return tag
		}
		return strings.TrimSpace(s.Backend)
	}

	return backends.Selection{
		backends.CapabilityUsers:          pick(s.UsersBackend),
		backends.CapabilityEnrollments:    pick(s.EnrollmentsBackend),
		backends.CapabilityGroups:         pick(s.GroupsBackend),
		backends.CapabilityUserSocialAuth: pick(s.UserSocialAuthBackend),
	}
}

// UsesTag reports whether any capability is served by tag.
func (s *EnvSpec) UsesTag(tag string) bool {
	for _, t := range s.BackendSelection() {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the settings that depend on each other.
func (s *EnvSpec) Validate() error {
	if s.AuthenticationEnabled && s.AuthenticationIssuer == "" && s.AuthenticationHMACSecret == "" && s.RedisAddr == "" {
		return fmt.Errorf("AUTHENTICATION_ENABLED is true but no issuer, HMAC secret or session store is configured")
	}
	if s.AuthorizationEnabled && (s.OpenfgaApiHost == "" || s.OpenfgaStoreId == "") {
		return fmt.Errorf("AUTHORIZATION_ENABLED is true but OPENFGA_API_HOST or OPENFGA_STORE_ID is not configured")
	}
	if !strings.HasPrefix(s.ApiPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", s.ApiPrefix)
	}
	return nil
}
