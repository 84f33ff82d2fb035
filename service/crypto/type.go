package crypto

import "errors"

var (
	ErrEmptyKey       = errors.New("decryption key is empty")
	ErrShortCipher    = errors.New("ciphertext too short")
	ErrAuthentication = errors.New("ciphertext authentication failed")
)

// IService is the on-device encryption primitive.
type IService interface {
	Decrypt(data, key []byte) ([]byte, error)
	Encrypt(data, key []byte) ([]byte, error)
}
