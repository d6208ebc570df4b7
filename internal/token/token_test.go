package token

import (
	"errors"
	"testing"
	"time"

	"github.com/opencamara/camara-server/internal/model"
)

const testIssuer = "camara-server"

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("segredo-de-teste", time.Hour, testIssuer)

	user := model.User{
		ID:    42,
		Email: "vereador@camara.gov.br",
		Role:  model.RoleVereador,
	}

	raw, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := m.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.Role != model.RoleVereador {
		t.Errorf("Role = %q, want %q", claims.Role, model.RoleVereador)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("segredo-de-teste", -time.Minute, testIssuer)

	raw, err := m.Issue(model.User{ID: 1, Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("segredo-a", time.Hour, testIssuer)
	verifier := NewManager("segredo-b", time.Hour, testIssuer)

	raw, err := issuer.Issue(model.User{ID: 1, Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := verifier.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(wrong secret) error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("segredo-de-teste", time.Hour, testIssuer)

	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", raw, err)
		}
	}
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"well formed", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"case-insensitive scheme", "bearer abc", "abc", false},
		{"empty header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"scheme only", "Bearer ", "", true},
		{"no scheme", "abc.def.ghi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHeader(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromHeader(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FromHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestNewRefreshTokenIsOpaqueAndUnique(t *testing.T) {
	a, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken() error: %v", err)
	}
	b, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken() error: %v", err)
	}

	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Error("two refresh tokens are identical")
	}
}
