package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// HashCost is the bcrypt work factor used for stored passwords.
	HashCost = 12
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)

// dummyHash is a bcrypt hash of a throwaway value. Login verifies against
// it when no account matches, so the miss and wrong-password paths take
// comparable time.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// HashPassword hashes password with bcrypt. Each call salts independently,
// so hashing the same secret twice yields different encodings.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BurnVerify performs a verification against a fixed dummy hash and always
// reports false. Callers use it on the account-miss path of login.
func BurnVerify(password string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	return false
}

// ValidatePassword checks the password policy for new passwords.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
