package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher is the one-way hash capability credential checks delegate
// to. It exists as an interface so the primitive stays pluggable.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, digest string) bool
}

// BcryptHasher hashes passwords with bcrypt at the default cost.
type BcryptHasher struct{}

// Hash produces a bcrypt digest of the raw password.
func (BcryptHasher) Hash(raw string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether raw matches the stored digest.
func (BcryptHasher) Verify(raw, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(raw)) == nil
}

var _ PasswordHasher = BcryptHasher{}
