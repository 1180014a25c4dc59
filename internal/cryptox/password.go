package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/mkarulin/filevault/internal/common"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltSize     = 16
)

// HashPassword derives an argon2id hash of password under a random salt.
// The result encodes salt and hash as "salt$hash", both base64.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltSize)
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(hash)
}

// CheckPassword reports whether password matches an encoded HashPassword
// value. The hash comparison is constant-time.
func CheckPassword(password, encoded string) bool {
	salt64, hash64, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(salt64)
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(hash64)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(hash, candidate) == 1
}
