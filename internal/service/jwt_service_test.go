package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lishe/internal/domain"
)

func testJWTUser() domain.User {
	return domain.User{
		ID:       7,
		Username: "alice",
		Role:     domain.RoleMember,
		Status:   domain.StatusOnboarded,
	}
}

func TestJWTService_GenerateParseAccess(t *testing.T) {
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())

	pair, err := svc.GeneratePair(context.Background(), testJWTUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn != 900 {
		t.Fatalf("unexpected pair: %+v", pair)
	}

	claims, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "7" || claims.Username != "alice" || claims.Role != "MEMBER" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	id, err := claims.ID64()
	if err != nil || id != 7 {
		t.Fatalf("expected id 7, got %d (%v)", id, err)
	}
}

func TestJWTService_RefreshRotation(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())

	pair, err := svc.GeneratePair(ctx, testJWTUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	refreshed, err := svc.RefreshPair(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh pair: %v", err)
	}
	claims, err := svc.ParseAccessToken(refreshed.AccessToken)
	if err != nil || claims.Username != "alice" {
		t.Fatalf("expected refreshed access token for alice, got %+v (%v)", claims, err)
	}

	if _, err := svc.RefreshPair(ctx, pair.RefreshToken); err == nil {
		t.Fatalf("expected old refresh token to be revoked")
	}
}

func TestJWTService_RevokeRefresh(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())
	pair, err := svc.GeneratePair(ctx, testJWTUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	if err := svc.RevokeRefresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("revoke refresh: %v", err)
	}
	if _, err := svc.RefreshPair(ctx, pair.RefreshToken); err == nil {
		t.Fatalf("expected refresh to fail after revoke")
	}
	if err := svc.RevokeRefresh(ctx, pair.AccessToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid revoking an access token, got %v", err)
	}
}

func TestJWTService_RejectsEmptySecretAndMissingID(t *testing.T) {
	svc := NewJWTServiceWithStore("", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())
	if _, err := svc.GeneratePair(context.Background(), testJWTUser()); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid on empty secret, got %v", err)
	}

	svc = NewJWTService("secret", 0, 0)
	if _, err := svc.GeneratePair(context.Background(), domain.User{Username: "alice"}); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid without user id, got %v", err)
	}
}

func TestJWTService_RejectsAccessTokenInRefreshFlow(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())
	pair, err := svc.GeneratePair(ctx, testJWTUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	if _, err := svc.RefreshPair(ctx, pair.AccessToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for access token used as refresh, got %v", err)
	}
	if _, err := svc.ParseAccessToken(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for refresh token used as access, got %v", err)
	}
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, time.Hour)
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GeneratePair(context.Background(), testJWTUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ParseAccessToken(pair.AccessToken); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, 30*time.Minute, NewMemoryRefreshTokenStore())
	now := time.Now().UTC()
	claims := Claims{
		UserID:    "7",
		Username:  "alice",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Subject:   "7",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.ParseAccessToken(signed); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong issuer, got %v", err)
	}
}
