package utils

import "github.com/google/uuid"

// GenerateID returns a new random (v4) UUID string.
func GenerateID() string {
	return uuid.NewString()
}
