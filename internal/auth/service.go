package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fdg312/diet-hub/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidUserID = errors.New("invalid user id")
	ErrDevAuthOff    = errors.New("dev auth disabled")
)

// DefaultDevUserID is the subject of dev tokens issued without an explicit user.
const DefaultDevUserID = "dev-user"

const devTTL = 30 * 24 * time.Hour

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:@-]{1,64}$`)

// Service - сервис авторизации (HS256 JWT)
type Service struct {
	config *config.Config
	now    func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg, now: time.Now}
}

// SignInDev - dev-авторизация, выдает JWT на 30 дней. Пустой userID
// означает DefaultDevUserID; так диетолог может получить токен клиента.
func (s *Service) SignInDev(ctx context.Context, userID string) (*DevAuthResponse, error) {
	_ = ctx

	if s.config.AuthMode != config.AuthModeDev {
		return nil, ErrDevAuthOff
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = DefaultDevUserID
	}
	if !userIDPattern.MatchString(userID) {
		return nil, ErrInvalidUserID
	}

	accessToken, err := s.generateJWTWithTTL(userID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(devTTL.Seconds()),
		UserID:      userID,
	}, nil
}

// generateJWT - генерация JWT токена с TTL из конфигурации
func (s *Service) generateJWT(userID string) (string, error) {
	return s.generateJWTWithTTL(userID, time.Duration(s.config.JWTTTLMinutes)*time.Minute)
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := s.now()

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT - проверка JWT токена, возвращает sub
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.JWTIssuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}

	return sub, nil
}
