package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrew/brewlog/internal/common"
)

func writeToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(signed+"\n"), 0o600))
	return path
}

func TestCurrentBaristaID(t *testing.T) {
	path := writeToken(t, jwt.RegisteredClaims{
		Subject:   "barista-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	p := NewTokenFileProvider(path)
	id, err := p.CurrentBaristaID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "barista-42", id)
}

func TestCurrentBaristaID_Expired(t *testing.T) {
	path := writeToken(t, jwt.RegisteredClaims{
		Subject:   "barista-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})

	p := NewTokenFileProvider(path)
	_, err := p.CurrentBaristaID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCurrentBaristaID_NoSubject(t *testing.T) {
	path := writeToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	p := NewTokenFileProvider(path)
	_, err := p.CurrentBaristaID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCurrentBaristaID_MissingFile(t *testing.T) {
	p := NewTokenFileProvider(filepath.Join(t.TempDir(), "nope"))
	_, err := p.CurrentBaristaID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestCurrentBaristaID_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("not-a-jwt"), 0o600))

	p := NewTokenFileProvider(path)
	_, err := p.CurrentBaristaID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAccessToken_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  abc.def.ghi\n"), 0o600))

	p := NewTokenFileProvider(path)
	tok, err := p.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)
}

func TestAccessToken_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	p := NewTokenFileProvider(path)
	_, err := p.AccessToken(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
