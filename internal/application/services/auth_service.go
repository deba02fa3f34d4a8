package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// SessionClaims represents the claims of a signed admin session cookie
type SessionClaims struct {
	Admin    bool   `json:"admin"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles admin authentication and sessions
type AuthService struct {
	adminRepo  ports.AdminRepository
	adminCfg   config.AdminConfig
	sessionCfg config.SessionConfig
	logger     *logger.Logger
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo ports.AdminRepository, adminCfg config.AdminConfig, sessionCfg config.SessionConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		adminCfg:   adminCfg,
		sessionCfg: sessionCfg,
		logger:     logger.WithComponent("auth"),
		now:        time.Now,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

// EnsureAdmin seeds the admin document with the configured default
// credentials when it does not exist yet
func (s *AuthService) EnsureAdmin(ctx context.Context) (bool, error) {
	existing, err := s.adminRepo.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load admin credentials: %w", err)
	}
	if !existing.IsZero() {
		if !usablePasswordHash(existing.Password) {
			s.logger.Error("Stored admin password is not a bcrypt hash, login is disabled until admin.json is removed and reseeded",
				"username", existing.Username)
		}
		return false, nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.adminCfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.adminRepo.CreateIfMissing(ctx, &entities.AdminCredential{
		Username: s.adminCfg.DefaultUsername,
		Password: string(hashedPassword),
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed admin credentials: %w", err)
	}

	if created {
		s.logger.Warn("Admin credentials seeded with configured defaults", "username", s.adminCfg.DefaultUsername)
	}

	return created, nil
}

// Authenticate verifies the credentials against the admin document
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*ports.AdminSession, error) {
	admin, err := s.adminRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin credentials: %w", err)
	}

	if admin.IsZero() {
		s.logger.Warn("Login attempt with no admin credentials configured", "username", username)
		return nil, entities.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	// always run the hash comparison so a wrong username costs the same
	passErr := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password))

	if !usablePasswordHash(admin.Password) {
		s.logger.Error("Login attempt against a non-bcrypt admin password hash", "username", username)
		return nil, entities.ErrInvalidCredentials
	}

	if !userOK || passErr != nil {
		s.logger.Warn("Login attempt with invalid credentials", "username", username)
		return nil, entities.ErrInvalidCredentials
	}

	s.logger.Info("Admin logged in successfully", "username", admin.Username)

	return &ports.AdminSession{
		Authenticated: true,
		Username:      admin.Username,
	}, nil
}

// IssueSession signs a session token for an authenticated admin
func (s *AuthService) IssueSession(session *ports.AdminSession) (string, error) {
	if session == nil || !session.Authenticated {
		return "", entities.ErrUnauthorized
	}

	now := s.now()
	claims := &SessionClaims{
		Admin:    true,
		Username: session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionCfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.sessionCfg.Issuer,
			Subject:   session.Username,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.sessionCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	return tokenString, nil
}

// ParseSession validates a session token and returns the admin session
func (s *AuthService) ParseSession(tokenString string) (*ports.AdminSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.sessionCfg.Secret), nil
	},
		jwt.WithIssuer(s.sessionCfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || !claims.Admin {
		return nil, fmt.Errorf("%w: invalid session claims", entities.ErrUnauthorized)
	}

	return &ports.AdminSession{
		Authenticated: true,
		Username:      claims.Username,
	}, nil
}

// usablePasswordHash reports whether hash is a bcrypt hash. Hashes written by
// other tools (pbkdf2, scrypt) can never match.
func usablePasswordHash(hash string) bool {
	_, err := bcrypt.Cost([]byte(hash))
	return err == nil
}
