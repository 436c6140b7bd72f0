package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"numera/internal/core/apperror"
	"numera/pkg/logger"
)

// Operator is a named API client with a bcrypt-hashed key.
type Operator struct {
	Name    string
	KeyHash string
	Roles   []string
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service exchanges operator keys for access tokens. Operators are
// configured statically; there is no user database to manage.
type Service struct {
	operators  map[string]Operator
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(jwtService *JWTService, operators []Operator) *Service {
	byName := make(map[string]Operator, len(operators))
	for _, op := range operators {
		byName[op.Name] = op
	}
	return &Service{
		operators:  byName,
		jwtService: jwtService,
	}
}

// IssueToken verifies an operator key and returns a signed token.
func (s *Service) IssueToken(ctx context.Context, operatorName, key string) (*Token, error) {
	op, ok := s.operators[operatorName]
	if !ok {
		// Burn a comparison anyway to keep timing uniform across
		// unknown and known operators.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000"), []byte(key))
		return nil, apperror.NewUnauthorized("invalid operator credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.KeyHash), []byte(key)); err != nil {
		logger.Warn(ctx, "operator key rejected", "operator", operatorName)
		return nil, apperror.NewUnauthorized("invalid operator credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateToken(op.Name, op.Roles)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "operator token issued", "operator", operatorName)

	return &Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// HashKey hashes a raw operator key for storage in configuration.
func HashKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
