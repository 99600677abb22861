package uid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateConnectionID generates a random id for a websocket connection
func GenerateConnectionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate connection ID: %v", err)
	}
	return hex.EncodeToString(bytes), nil
}
