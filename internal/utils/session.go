package utils

import (
	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID identifying one interview attempt.
// The id keys the save-once marker that prevents duplicate history
// writes.
func GenerateSessionID() string {
	return uuid.New().String()
}
