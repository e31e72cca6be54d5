package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/auth"
	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// MemberTokenService validates HS256 member tokens.
type MemberTokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ ports.MemberAuthenticator = (*MemberTokenService)(nil)

// NewMemberTokenService creates a validator for secret. A non-empty issuer is enforced.
func NewMemberTokenService(secret, issuer string) *MemberTokenService {
	return &MemberTokenService{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// IssueToken signs a member token valid for ttl. Tokens always expire.
func (s *MemberTokenService) IssueToken(memberID string, ttl time.Duration) (string, error) {
	return s.issue(memberID, "", ttl)
}

// IssueOperatorToken signs a token that may invalidate or force-refresh the catalog cache.
func (s *MemberTokenService) IssueOperatorToken(subject string, ttl time.Duration) (string, error) {
	return s.issue(subject, auth.RoleOperator, ttl)
}

func (s *MemberTokenService) issue(subject, role string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	if subject == "" {
		return "", fmt.Errorf("member id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	now := s.now()
	claims := &auth.MemberClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign member token: %w", err)
	}
	return token, nil
}

func (s *MemberTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.MemberClaims, error) {
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret is not configured", auth.ErrInvalidToken)
	}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &auth.MemberClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, auth.ErrInvalidToken
	}
	claims, ok := token.Claims.(*auth.MemberClaims)
	if !ok || claims.MemberID() == "" {
		return nil, fmt.Errorf("%w: missing subject", auth.ErrInvalidToken)
	}
	return claims, nil
}
