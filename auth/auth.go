// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateAdminKey creates the HMAC-based admin key for an experiment.
// This is deterministic and verifiable
func GenerateAdminKey(experiment, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(experiment))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the experiment
func ValidateAdminKey(experiment, adminKey, salt string) error {
	expected := GenerateAdminKey(experiment, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// HashRespondent creates a one-way hash of a respondent identifier
// (student id) so the stored registry stays anonymized.
// Includes salt to prevent rainbow table attacks
func HashRespondent(studentID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(studentID))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
