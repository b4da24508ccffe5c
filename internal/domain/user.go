package domain

import (
	"fmt"
	"strings"
)

// CheckUserID rejects empty user ids and ids that would break the key
// layout: colons and whitespace.
func CheckUserID(userID string) error {
	if strings.TrimSpace(userID) == "" || strings.ContainsAny(userID, ": \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidUser, userID)
	}
	return nil
}
