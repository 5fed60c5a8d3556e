// Package cryptox hashes user secrets. Secrets are never stored verbatim:
// each one is stretched with argon2id under its own random salt, and
// candidates are compared in constant time.
package cryptox

import (
	"crypto/subtle"

	"github.com/notesvault/notesvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// DeriveKey stretches secret with salt using argon2id.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// HashSecret returns the derived hash and the freshly generated salt it was
// derived with. Both must be stored to verify the secret later.
func HashSecret(secret []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return DeriveKey(secret, salt), salt
}

// VerifySecret reports whether candidate hashes to hash under salt.
func VerifySecret(candidate, hash, salt []byte) bool {
	return subtle.ConstantTimeCompare(DeriveKey(candidate, salt), hash) == 1
}
