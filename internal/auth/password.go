// ABOUTME: Password hashing and verification using bcrypt
// ABOUTME: Keeps comparison timing flat across unknown-user and wrong-password paths

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no real hash is available, so the
// response time does not reveal whether an account exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns a bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the presented password matches the stored
// bcrypt hash. A blank password or missing hash always fails; both paths
// still perform a bcrypt comparison so timing stays constant-shape.
func CheckPassword(password, storedHash string) bool {
	if password == "" || storedHash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
