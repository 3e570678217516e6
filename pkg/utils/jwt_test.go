package utils

import (
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("s3cret", "admin-1", "ADMIN", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT("s3cret", token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != "admin-1" || claims.Role != "ADMIN" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ParseJWT("other", token); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT("s3cret", "admin-1", "ADMIN", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT("s3cret", token); err == nil {
		t.Error("expired token should not parse")
	}
}
