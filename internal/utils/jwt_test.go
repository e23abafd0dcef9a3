package utils

import (
	"testing"

	"rently-server/internal/config"
	"rently-server/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "test-secret",
		JWTRefreshSecret:          "test-refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 24,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := testConfig()
	user := &models.User{
		BaseModel: models.BaseModel{ID: "u1"},
		Role:      models.RoleLandlord,
	}

	access, refresh, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens")
	}

	claims, err := ValidateToken(access, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleLandlord {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	refreshClaims, err := ValidateToken(refresh, cfg.JWTRefreshSecret)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if refreshClaims.UserID != "u1" {
		t.Fatalf("unexpected refresh claims: %+v", refreshClaims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	user := &models.User{BaseModel: models.BaseModel{ID: "u1"}, Role: models.RoleTenant}

	access, _, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateToken(access, "some-other-secret"); err == nil {
		t.Fatalf("expected rejection with wrong secret")
	}
	if _, err := ValidateToken("not-a-token", cfg.JWTSecret); err == nil {
		t.Fatalf("expected rejection of garbage token")
	}
}
