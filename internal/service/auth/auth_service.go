package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akarsenev/parkslot/config"
	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type AuthUseCase interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context)
	Session(ctx context.Context) domain.AdminSession
	Verify(ctx context.Context, token string) error
}

// AuthService holds the single process-wide admin session. Login checks the
// configured credential pair and mints a bearer token for the HTTP surface;
// Logout drops the session, which also invalidates outstanding tokens.
type AuthService struct {
	cfg     config.AdminConfig
	mu      sync.Mutex
	session domain.AdminSession
}

func NewAuthService(cfg config.AdminConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username != s.cfg.Username || password != s.cfg.Password {
		return "", domain.ErrAuthenticationFailed
	}

	ttl := time.Duration(s.cfg.TokenTTLMinutes) * time.Minute
	if ttl == 0 {
		ttl = time.Hour
	}
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	s.mu.Lock()
	s.session = domain.AdminSession{Username: username, Authenticated: true}
	s.mu.Unlock()
	return token, nil
}

func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = domain.AdminSession{}
	s.mu.Unlock()
}

func (s *AuthService) Session(ctx context.Context) domain.AdminSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *AuthService) Verify(ctx context.Context, token string) error {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.ErrAuthenticationFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Authenticated {
		return domain.ErrAuthenticationFailed
	}
	return nil
}

var _ AuthUseCase = (*AuthService)(nil)
