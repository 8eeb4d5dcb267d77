package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is the bcrypt work factor used for new password digests.
const DefaultHashCost = 10

// PasswordHasher produces salted one-way bcrypt digests and verifies
// plaintext candidates against them. bcrypt embeds a fresh random salt in
// every digest, so hashing the same password twice yields different digests.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = DefaultHashCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a digest from the plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. The comparison is
// constant-time within bcrypt. A malformed digest yields false, never an
// error.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
