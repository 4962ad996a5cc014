package utils

import (
	"math/rand"
)

const lobbyCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateLobbyCode returns a random join code of the given length.
// Uniqueness is the caller's job (retry on collision).
func GenerateLobbyCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = lobbyCodeCharset[rand.Intn(len(lobbyCodeCharset))]
	}
	return string(code)
}
