package user

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

// argon2idParams defines OWASP minimum parameters for Argon2id.
// Memory: 47 MiB, Iterations: 1, Parallelism: 1
var argon2idParams = &argon2id.Params{
	Memory:      47 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword returns an Argon2id hash of the secret in PHC format.
// A random per-call salt guarantees that two hashes of the same secret differ.
// Format: $argon2id$v=19$m=48128,t=1,p=1$<salt>$<hash>
func HashPassword(secret string) (string, error) {
	return argon2id.CreateHash(secret, argon2idParams)
}

// VerifyPassword reports whether the secret matches the stored hash.
// Malformed stored hashes never panic or surface an error: they verify false.
func VerifyPassword(secret, storedHash string) bool {
	match, err := safeCompare(secret, storedHash)
	if err != nil {
		return false
	}
	return match
}

// safeCompare wraps argon2id.ComparePasswordAndHash with panic recovery.
// The underlying argon2 library panics on hashes with invalid parameters
// (e.g. t=0 rounds, p=0 parallelism); those are converted to errors here.
func safeCompare(secret, storedHash string) (match bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			match = false
			err = fmt.Errorf("invalid argon2id hash parameters: %v", r)
		}
	}()
	return argon2id.ComparePasswordAndHash(secret, storedHash)
}
