package cookie_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/plugsession/pkg/cookie"
)

func TestSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range cookie.HashAlgorithms() {
		t.Run(alg, func(t *testing.T) {
			t.Parallel()

			s, err := cookie.NewSigner([]string{testSecret}, "salt.", alg)
			require.NoError(t, err)

			for _, value := range []string{"", "a", "0123456789abcdef0123456789abcdef01234567"} {
				got, err := s.VerifyString(s.SignString(value))
				require.NoError(t, err)
				assert.Equal(t, value, got)
			}
		})
	}
}

func TestSigner_DefaultAlgorithm(t *testing.T) {
	t.Parallel()

	def, err := cookie.NewSigner([]string{testSecret}, "salt.", "")
	require.NoError(t, err)
	sha512, err := cookie.NewSigner([]string{testSecret}, "salt.", "SHA512")
	require.NoError(t, err)

	assert.Equal(t, sha512.SignString("value"), def.SignString("value"))
}

func TestSigner_BitFlipRejected(t *testing.T) {
	t.Parallel()

	s, err := cookie.NewSigner([]string{testSecret}, "salt.", "sha512")
	require.NoError(t, err)

	token := s.SignString("0123456789abcdef0123456789abcdef01234567")
	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)

	for i := range raw {
		for bit := range 8 {
			flipped := append([]byte(nil), raw...)
			flipped[i] ^= 1 << bit

			_, err := s.Verify(base64.RawURLEncoding.EncodeToString(flipped))
			require.Error(t, err, "byte %d bit %d", i, bit)
		}
	}
}

func TestSigner_SaltAndSecretSeparateTokens(t *testing.T) {
	t.Parallel()

	a, err := cookie.NewSigner([]string{testSecret}, "a.", "sha256")
	require.NoError(t, err)
	b, err := cookie.NewSigner([]string{testSecret}, "b.", "sha256")
	require.NoError(t, err)

	_, err = b.Verify(a.SignString("value"))
	assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
}

func TestSigner_InvalidTokens(t *testing.T) {
	t.Parallel()

	s, err := cookie.NewSigner([]string{testSecret}, "salt.", "sha256")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"too short", base64.RawURLEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			assert.True(t, errors.Is(err, cookie.ErrInvalidFormat), "got %v", err)
		})
	}
}

func TestSigner_PaddedTokenAccepted(t *testing.T) {
	t.Parallel()

	s, err := cookie.NewSigner([]string{testSecret}, "salt.", "sha256")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(s.SignString("abc"))
	require.NoError(t, err)

	got, err := s.VerifyString(base64.URLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestNewSigner_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := cookie.NewSigner([]string{testSecret}, "salt.", "md5")
	assert.ErrorIs(t, err, cookie.ErrUnknownHashAlgorithm)
}
