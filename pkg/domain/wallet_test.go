package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "humanproof/pkg/domain-errors"
)

// TestParseWallet_Invariants validates the parsing invariant:
// "wallets must be exactly 32 non-zero bytes, hex encoded".
func TestParseWallet_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseWallet("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, err := ParseWallet("abcd")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		_, err := ParseWallet(strings.Repeat("zz", 32))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects the zero wallet", func(t *testing.T) {
		_, err := ParseWallet(strings.Repeat("00", 32))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("round-trips a valid wallet", func(t *testing.T) {
		in := strings.Repeat("ab", 31) + "01"
		w, err := ParseWallet(in)
		require.NoError(t, err)
		assert.Equal(t, in, w.String())
	})
}

func TestParseHash32(t *testing.T) {
	t.Run("accepts the zero hash", func(t *testing.T) {
		h, err := ParseHash32(strings.Repeat("00", 32))
		require.NoError(t, err)
		assert.True(t, h.Zero())
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseHash32(strings.Repeat("00", 16))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
