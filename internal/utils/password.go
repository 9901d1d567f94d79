package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored in users.password_hash when an
// account registers.  The cost comes from BCRYPT_COST, so dev setups can
// trade hash strength for faster signups while production keeps a high
// factor.
func HashPassword(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.  Used on
// login; the comparison is constant time, so a failed attempt reveals
// nothing about how close the guess was.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
