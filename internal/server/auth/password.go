package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash from plain. The salt is generated per
// call, so hashing the same password twice yields different strings.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
// Mismatches return false, never an error.
func CheckPassword(plain string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
