package service

import (
	"errors"
	"time"

	"github.com/dom/patch-meta/internal/config"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the "sub" claim of admin tokens.
const AdminSubject = "admin"

// AuthService issues and checks the bearer tokens that guard the mutating
// endpoints. There is a single admin identity whose bcrypt password hash
// comes from configuration.
type AuthService struct {
	cfg *config.Config
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

type AuthResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks password against the configured admin hash and issues an access token.
func (s *AuthService) Login(password string) (*AuthResult, error) {
	if s.cfg.AdminPasswordHash == "" {
		return nil, domain.ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.generateAccessToken()
}

func (s *AuthService) generateAccessToken() (*AuthResult, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub": AdminSubject,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	if s.cfg.JWTSecret == "" {
		return nil, domain.ErrAuthDisabled
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}
