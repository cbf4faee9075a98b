package credentials

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	HashVersionBcrypt = "bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher clamps cost into bcrypt's accepted range.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a plaintext password and reports the scheme version stored
// alongside it.
func (h *Hasher) Hash(password string) (hash string, version string, err error) {
	if password == "" {
		return "", "", errors.New("credentials: empty password")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", "", err
	}

	return string(bytes), HashVersionBcrypt, nil
}

// Verify compares a plaintext password with a stored hash.
func (h *Hasher) Verify(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
