package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChaChaRoundTrip(t *testing.T) {
	svc := NewChaCha()
	plain := []byte("tflite model bytes")

	sealed, err := svc.Encrypt(plain, []byte("key"))
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	out, err := svc.Decrypt(sealed, []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestChaChaWrongKey(t *testing.T) {
	svc := NewChaCha()
	sealed, err := svc.Encrypt([]byte("payload"), []byte("right"))
	require.NoError(t, err)

	_, err = svc.Decrypt(sealed, []byte("wrong"))
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestChaChaCorruptAndEmpty(t *testing.T) {
	svc := NewChaCha()

	_, err := svc.Decrypt([]byte{1, 2, 3}, []byte("k"))
	assert.ErrorIs(t, err, ErrShortCipher)

	_, err = svc.Decrypt([]byte("whatever"), nil)
	assert.ErrorIs(t, err, ErrEmptyKey)
}
