// Package auth implements the optional app lock: a single passcode hashed
// with Argon2id, checked before the API will serve anything else.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	passSaltSize = 16
	passKeySize  = 32
	passTime     = 3
	passMem      = 64 * 1024
	passPar      = 4
)

// HashPasscode derives an Argon2id digest of the passcode with a fresh
// random salt. The result is self-contained: "argon2id$<salt>$<digest>".
func HashPasscode(passcode string) (string, error) {
	salt := make([]byte, passSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := argon2.IDKey([]byte(passcode), salt, passTime, passMem, passPar, passKeySize)
	return fmt.Sprintf("argon2id$%s$%s", hex.EncodeToString(salt), hex.EncodeToString(digest)), nil
}

// VerifyPasscode checks the passcode against a stored hash in constant time.
// A malformed hash verifies as false rather than erroring; the caller cannot
// do anything useful with the distinction.
func VerifyPasscode(passcode, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 3 || parts[0] != "argon2id" {
		return false
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != passKeySize {
		return false
	}
	got := argon2.IDKey([]byte(passcode), salt, passTime, passMem, passPar, passKeySize)
	return subtle.ConstantTimeCompare(got, want) == 1
}
