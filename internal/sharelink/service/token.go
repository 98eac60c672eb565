package service

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 16

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
