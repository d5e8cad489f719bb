package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Verify(hash, "s3cret"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), ErrMismatch)
}

func TestVerifyMalformedHash(t *testing.T) {
	err := NewBcrypt(bcrypt.MinCost).Verify("not-a-hash", "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
