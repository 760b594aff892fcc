package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef")

	token, err := issuer.Issue("p1", AudienceIngest, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := issuer.Verify(token, AudienceIngest)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if subject != "p1" {
		t.Errorf("expected p1, got %s", subject)
	}
}

func TestTokenRejections(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef")
	other := NewTokenIssuer("ffffffffffffffffffffffffffffffff")

	playerToken, _ := issuer.Issue("p1", AudiencePlayer, time.Hour)
	foreignToken, _ := other.Issue("p1", AudienceIngest, time.Hour)

	expiring := NewTokenIssuer("0123456789abcdef0123456789abcdef")
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _ := expiring.Issue("p1", AudienceIngest, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong audience", playerToken},
		{"wrong key", foreignToken},
		{"expired", expiredToken},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token, AudienceIngest); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestTokenWithoutExpiry(t *testing.T) {
	issuer := NewTokenIssuer("0123456789abcdef0123456789abcdef")

	token, err := issuer.Issue("game-server", AudienceIngest, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Verify(token, AudienceIngest); err != nil {
		t.Errorf("verify: %v", err)
	}
}
