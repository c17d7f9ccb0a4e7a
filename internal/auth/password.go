package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword computes a salted bcrypt hash of the raw password.
// Plaintext is never stored.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether raw matches the stored bcrypt hash.
// A wrong password returns false, not an error.
func CheckPassword(raw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(raw)) == nil
}
