package utils

import "golang.org/x/crypto/bcrypt"

const passwordCost = 10

// HashPassword hashes a given password using bcrypt. Every call uses a fresh salt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
// A malformed digest is reported as a mismatch.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
