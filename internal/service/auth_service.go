package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/duorhuang/aquaflow-pro/internal/config"
	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/repository"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

// CoachID is the subject of every coach session. There is a single coach account.
const CoachID = "coach"

const tokenIssuer = "aquaflow-pro"

// Principal is the signed-in user returned by Login.
type Principal struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Role    domain.Role     `json:"role"`
	Swimmer *domain.Swimmer `json:"swimmer,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, principal *Principal, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	swimmerRepo   repository.SwimmerRepository
	coachUsername string
	coachHash     []byte
	jwtSecret     string
	jwtExpiration time.Duration
	now           Clock
}

// NewAuthService hashes the configured coach password once so both account
// kinds are checked the same way.
func NewAuthService(swimmerRepo repository.SwimmerRepository, auth config.AuthConfig, jwtCfg config.JWTConfig, now Clock) (AuthService, error) {
	if jwtCfg.Secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if jwtCfg.Expiration <= 0 {
		jwtCfg.Expiration = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	s := &authService{
		swimmerRepo:   swimmerRepo,
		coachUsername: strings.TrimSpace(auth.CoachUsername),
		jwtSecret:     jwtCfg.Secret,
		jwtExpiration: jwtCfg.Expiration,
		now:           now,
	}
	if s.coachUsername != "" && auth.CoachPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(auth.CoachPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrHashingFailed
		}
		s.coachHash = hash
	} else {
		log.Warn("no coach account configured, only athletes can sign in")
	}
	return s, nil
}

// Login checks the coach account first, then athletes by case-insensitive username.
func (s *authService) Login(ctx context.Context, username, password string) (string, *Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	var principal *Principal
	if s.coachHash != nil && strings.EqualFold(username, s.coachUsername) {
		if bcrypt.CompareHashAndPassword(s.coachHash, []byte(password)) != nil {
			return "", nil, ErrAuthenticationFailed
		}
		principal = &Principal{ID: CoachID, Name: s.coachUsername, Role: domain.RoleCoach}
	} else {
		sw, err := s.swimmerRepo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", nil, ErrAuthenticationFailed
			}
			return "", nil, err
		}
		if sw.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(sw.PasswordHash), []byte(password)) != nil {
			return "", nil, ErrAuthenticationFailed
		}
		principal = &Principal{ID: sw.ID, Name: sw.Name, Role: domain.RoleAthlete, Swimmer: sw}
	}

	token, err := s.generateJWT(principal)
	if err != nil {
		log.Errorf("sign token for %s: %s", principal.ID, err)
		return "", nil, ErrTokenGeneration
	}
	return token, principal, nil
}

// Claims is the JWT payload shared with the API middleware.
type Claims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(p *Principal) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: p.ID,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
