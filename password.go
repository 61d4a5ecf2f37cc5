package ejabberd

import (
	"crypto/sha1"
	"encoding/hex"
)

// hashMethodSHA is the hashmethod token check_password_hash expects for SHA-1 digests.
const hashMethodSHA = "sha"

// PasswordHash returns the lowercase hexadecimal SHA-1 digest of password,
// the form check_password_hash compares against with hashmethod "sha".
func PasswordHash(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
