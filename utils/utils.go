package utils

import (
	"fmt"
	"math/rand"
	"os"
)

// GetEnv returns the value of an environment variable or a fallback
// when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// CreateFolder creates a directory (and parents) if it doesn't exist.
func CreateFolder(folderPath string) error {
	if _, err := os.Stat(folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(folderPath, 0755); err != nil {
			return fmt.Errorf("failed to create folder %q: %v", folderPath, err)
		}
	}
	return nil
}

// GenerateUniqueID returns a random 32-bit identifier for history records.
func GenerateUniqueID() uint32 {
	return rand.Uint32()
}
