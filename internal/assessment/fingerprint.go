package assessment

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/rgehrsitz/irgo/internal/domain"
)

// Fingerprint is the hex SHA-256 of the profile's JSON encoding. Equal
// profiles always hash the same; decimals encode without trailing zeros.
func Fingerprint(p domain.Profile) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
