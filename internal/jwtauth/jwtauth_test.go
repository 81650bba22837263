package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"humanproof/pkg/domain"
	dErrors "humanproof/pkg/domain-errors"
)

var manager = NewManager(
	"test-signing-key",
	"test-issuer",
	"test-audience",
	time.Hour,
)

func testWallet() domain.Wallet {
	var w domain.Wallet
	for i := range w {
		w[i] = 0x42
	}
	return w
}

func Test_Issue_RoundTrip(t *testing.T) {
	token, err := manager.Issue(testWallet())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	wallet, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, testWallet(), wallet)
}

func Test_Validate_InvalidToken(t *testing.T) {
	_, err := manager.Validate("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}

func Test_Validate_ExpiredToken(t *testing.T) {
	expired := NewManager("test-signing-key", "test-issuer", "test-audience", -time.Hour)

	token, err := expired.Issue(testWallet())
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}

func Test_Validate_WrongKey(t *testing.T) {
	other := NewManager("other-signing-key", "test-issuer", "test-audience", time.Hour)

	token, err := other.Issue(testWallet())
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}

func Test_Validate_WrongAudience(t *testing.T) {
	other := NewManager("test-signing-key", "test-issuer", "other-audience", time.Hour)

	token, err := other.Issue(testWallet())
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}
