package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters. The salt lives in its own table keyed
// by user id and is combined with the password via PBKDF2-SHA256.
const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	saltBytes        = 16
)

// HashPassword derives a salted hash for a new password. It returns
// the hex-encoded hash and the generated salt; the caller stores them
// in the users and salts tables respectively.
func HashPassword(password string) (hash string, salt string, err error) {
	salt, err = randomHex(saltBytes)
	if err != nil {
		return "", "", err
	}
	return hashWithSalt(password, salt), salt, nil
}

// VerifyPassword checks a provided password against the stored hash
// and the account's salt. Pure and deterministic; a mismatch is a
// plain false, never an error. The comparison is constant time so the
// timing does not depend on how many leading bytes match.
func VerifyPassword(provided, storedHash, salt string) bool {
	stored, err := hex.DecodeString(storedHash)
	if err != nil {
		return false
	}
	derived := pbkdf2.Key([]byte(provided), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return subtle.ConstantTimeCompare(derived, stored) == 1
}

func hashWithSalt(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data. Shared by the salt generator
// and the refresh token issuer.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
