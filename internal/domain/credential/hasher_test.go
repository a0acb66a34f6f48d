package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher(t *testing.T) {
	testCases := []struct {
		name      string
		algorithm string
		cost      int
		wantErr   bool
	}{
		{"MD5", "md5", 0, false},
		{"SHA256", "sha256", 0, false},
		{"SHA256UpperCase", "SHA256", 0, false},
		{"Bcrypt", "bcrypt", bcrypt.MinCost, false},
		{"BcryptCostTooLow", "bcrypt", 1, true},
		{"Unknown", "rot13", 0, true},
		{"Empty", "", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHasher(tc.algorithm, tc.cost)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrHashUnavailable)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, h)
		})
	}
}

func TestHasher_Verify(t *testing.T) {
	for _, algorithm := range []string{AlgorithmMD5, AlgorithmSHA256, AlgorithmBcrypt} {
		t.Run(algorithm, func(t *testing.T) {
			h, err := NewHasher(algorithm, bcrypt.MinCost)
			require.NoError(t, err)
			assert.Equal(t, algorithm, h.Algorithm())

			digest, err := h.Hash("4321")
			require.NoError(t, err)
			assert.NotContains(t, string(digest), "4321")

			assert.True(t, h.Verify("4321", digest))
			for _, wrong := range []string{"1234", "", "43210", "432", " 4321"} {
				assert.False(t, h.Verify(wrong, digest), "pin %q must not verify", wrong)
			}
		})
	}
}

func TestDigestHasher_FixedLengthAndDeterministic(t *testing.T) {
	testCases := []struct {
		algorithm string
		size      int
	}{
		{AlgorithmMD5, 16},
		{AlgorithmSHA256, 32},
	}

	for _, tc := range testCases {
		t.Run(tc.algorithm, func(t *testing.T) {
			h, err := NewHasher(tc.algorithm, 0)
			require.NoError(t, err)

			a, _ := h.Hash("1")
			b, _ := h.Hash("1")
			c, _ := h.Hash("a much longer pin value")

			assert.Equal(t, a, b)
			assert.Len(t, a, tc.size)
			assert.Len(t, c, tc.size)
		})
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h, err := NewHasher(AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	a, err := h.Hash("0000")
	require.NoError(t, err)
	b, err := h.Hash("0000")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "bcrypt digests carry a random salt")
	assert.True(t, h.Verify("0000", a))
	assert.True(t, h.Verify("0000", b))
}
