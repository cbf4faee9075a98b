package session

import (
	"fmt"

	"github.com/bbqjam05/pwd-week6-server/internal/utils"
)

// idBytes gives 256 bits of entropy.
const idBytes = 32

// GenerateID generates a cryptographically secure session ID.
func GenerateID() (string, error) {
	id, err := utils.RandomString(idBytes)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id, nil
}
