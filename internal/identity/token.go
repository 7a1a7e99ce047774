// Package identity resolves the current barista from the locally stored
// access token. It is a pure read: nothing here mutates auth state.
package identity

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openbrew/brewlog/internal/common"
)

// TokenFileProvider reads a JWT from a file on each call and extracts the
// barista id from its subject claim. The signature is not verified: the
// token was issued to this device by the server and is only used to label
// drafts, the server re-checks it on every request.
type TokenFileProvider struct {
	path string
	now  func() time.Time
}

func NewTokenFileProvider(path string) *TokenFileProvider {
	return &TokenFileProvider{path: path, now: time.Now}
}

// CurrentBaristaID returns the subject of the stored token. A missing
// file, unparsable token, expired token or empty subject all report
// common.ErrUnauthorized.
func (p *TokenFileProvider) CurrentBaristaID(ctx context.Context) (string, error) {
	token, err := p.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	if claims.ExpiresAt != nil && p.now().After(claims.ExpiresAt.Time) {
		return "", fmt.Errorf("%w: token expired", common.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", common.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// AccessToken returns the raw stored token for outbound requests.
func (p *TokenFileProvider) AccessToken(ctx context.Context) (string, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return "", common.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", common.ErrUnauthorized
	}
	return token, nil
}
