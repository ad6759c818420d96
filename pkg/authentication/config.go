// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

type Config struct {
	Enabled    bool
	Issuer     string
	JwksURL    string
	HMACSecret string

	CookieName    string
	SessionPrefix string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func NewConfig(enabled bool, issuer, jwksURL, hmacSecret, cookieName, sessionPrefix, redisAddr, redisPassword string, redisDB int) *Config {
	return &Config{
		Enabled:       enabled,
		Issuer:        issuer,
		JwksURL:       jwksURL,
		HMACSecret:    hmacSecret,
		CookieName:    cookieName,
		SessionPrefix: sessionPrefix,
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,
	}
}
