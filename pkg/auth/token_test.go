package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasferreira/fornada-backend/pkg/config"
	"github.com/lucasferreira/fornada-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fornada-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:  uuid.New(),
		StoreID: uuid.New(),
		Role:    enums.MemberRoleManager,
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, payload.UserID, claims.UserID)
	assert.Equal(t, payload.StoreID, claims.StoreID)
	assert.Equal(t, payload.Role, claims.Role)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestMintAccessToken_RequiresValidPayload(t *testing.T) {
	cfg := testJWTConfig()

	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		StoreID: uuid.New(),
		Role:    enums.MemberRoleAdmin,
	})
	assert.ErrorContains(t, err, "user id")

	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.MemberRole("superuser"),
	})
	assert.ErrorContains(t, err, "role")
}

func TestParseAccessToken_RejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	payload := AccessTokenPayload{
		UserID:  uuid.New(),
		StoreID: uuid.New(),
		Role:    enums.MemberRoleOperator,
	}

	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), payload)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	assert.Error(t, err)
}

func TestParseAccessToken_RejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:  uuid.New(),
		StoreID: uuid.New(),
		Role:    enums.MemberRoleAdmin,
	})
	require.NoError(t, err)

	other := cfg
	other.Secret = "another-secret"
	_, err = ParseAccessToken(other, signed)
	assert.Error(t, err)
}
