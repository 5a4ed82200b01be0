package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/aulahub/aulahub-backend/internal/platform/apperr"
	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/repos"
	"github.com/aulahub/aulahub-backend/internal/requestdata"
	"github.com/aulahub/aulahub-backend/internal/types"
)

// AuthService issues and verifies session credentials. Tokens are signed
// JWTs bound to the username claim; the server never persists them, so a
// credential dies only by expiry or the client dropping its cookie.
type AuthService interface {
	Register(ctx context.Context, user *types.User, plainPassword string) (*types.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	// Verify is the credential verifier: pure, deterministic for a given
	// token and clock window. Every failure mode collapses into
	// apperr.ErrUnauthenticated so callers cannot probe why a token was
	// rejected.
	Verify(tokenString string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	TokenTTL() time.Duration
}

type jwtClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	tokenTTL     time.Duration
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, tokenTTL time.Duration) AuthService {
	return &authService{
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		tokenTTL:     tokenTTL,
		now:          time.Now,
	}
}

func (as *authService) Register(ctx context.Context, user *types.User, plainPassword string) (*types.User, error) {
	if user == nil {
		return nil, fmt.Errorf("user required")
	}
	user.Username = strings.TrimSpace(strings.ToLower(user.Username))
	if user.Username == "" || plainPassword == "" {
		return nil, fmt.Errorf("username and password required")
	}
	if user.Role != types.RoleTeacher && user.Role != types.RoleStudent {
		return nil, fmt.Errorf("unknown role %q", user.Role)
	}

	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(salt+plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Salt = salt
	user.Password = string(hashed)

	// The unique index on username turns a duplicate registration into
	// ErrConflict at the adapter.
	created, err := as.userRepo.Upsert(ctx, nil, user)
	if err != nil {
		return nil, err
	}
	as.log.Info("Registered user", "username", created.Username, "role", created.Role)
	return created, nil
}

// Login checks the password and mints the session credential. Unknown
// username and wrong password are indistinguishable to the caller.
func (as *authService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(strings.ToLower(username))

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		return "", apperr.ErrUnauthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(user.Salt+password)) != nil {
		return "", apperr.ErrUnauthenticated
	}
	return as.generateToken(user.Username)
}

func (as *authService) generateToken(username string) (string, error) {
	now := as.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperr.ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return "", apperr.ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", apperr.ErrUnauthenticated
	}
	return claims.Subject, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	username, err := as.Verify(tokenString)
	if err != nil {
		return ctx, err
	}
	rd := &requestdata.RequestData{
		TokenString: tokenString,
		Username:    username,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) TokenTTL() time.Duration {
	return as.tokenTTL
}

func newSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
