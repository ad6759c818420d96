// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

const testKeyID = "test-key"

func jwksServer(t *testing.T, key *rsa.PublicKey) *httptest.Server {
	t.Helper()

	jwks := map[string]interface{}{
		"keys": []map[string]string{
			{
				"kty": "RSA",
				"kid": testKeyID,
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(jwks) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)

	return srv
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	raw, err := token.SignedString(key)
	require.NoError(t, err)

	return raw
}

func TestJWTVerifierWithJWKS(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := jwksServer(t, &key.PublicKey)
	issuer := "https://auth.example.com"
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name: "valid",
			token: signRS256(t, key, jwt.MapClaims{
				"iss": issuer, "sub": "svc", "aud": "lms", "groups": []string{"staff"},
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
		},
		{
			name: "wrong issuer",
			token: signRS256(t, key, jwt.MapClaims{
				"iss": "https://other.example.com", "sub": "svc", "aud": "lms",
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "expired",
			token: signRS256(t, key, jwt.MapClaims{
				"iss": issuer, "sub": "svc", "aud": "lms",
				"iat": now.Add(-2 * time.Hour).Unix(), "exp": now.Add(-time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "unknown signing key",
			token: signRS256(t, otherKey, jwt.MapClaims{
				"iss": issuer, "sub": "svc", "aud": "lms",
				"iat": now.Unix(), "exp": now.Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logger := logging.NewNoopLogger()
			ctx := context.Background()
			v := NewJWTVerifierDirect(NewVerifierWithJWKS(ctx, issuer, srv.URL), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			p, err := v.VerifyToken(ctx, test.token)
			if test.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "svc", p.Subject)
			assert.Equal(t, []string{"staff"}, p.Groups)
		})
	}
}
