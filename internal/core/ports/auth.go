package ports

import (
	"context"
	"time"

	"github.com/cellarhouse/storefront-cache/internal/core/domain/auth"
)

// MemberAuthenticator validates member tokens issued by the storefront's identity provider.
type MemberAuthenticator interface {
	ValidateToken(ctx context.Context, token string) (*auth.MemberClaims, error)
	// IssueToken signs a token for memberID. Used by operator tooling and tests.
	IssueToken(memberID string, ttl time.Duration) (string, error)
	// IssueOperatorToken signs a token with the operator role for cache administration.
	IssueOperatorToken(subject string, ttl time.Duration) (string, error)
}
