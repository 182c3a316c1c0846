package adminauth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DefaultKeyPrefix is the leading group of minted secure-key codes.
const DefaultKeyPrefix = "DKADMIN"

// keySegmentSizes are the random byte counts of the four code groups.
var keySegmentSizes = []int{4, 4, 4, 2}

// GenerateKeyCode mints one code of the form
// PREFIX-XXXXXXXX-XXXXXXXX-XXXXXXXX-XXXX, where X is uppercase hex from a
// cryptographic source. The key generator that runs in production is a
// separate batch tool; this exists for operators, fixtures, and tests.
func GenerateKeyCode(prefix string) (string, error) {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	groups := make([]string, 0, len(keySegmentSizes)+1)
	groups = append(groups, prefix)

	for _, size := range keySegmentSizes {
		buf := make([]byte, size)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		groups = append(groups, strings.ToUpper(hex.EncodeToString(buf)))
	}

	return strings.Join(groups, "-"), nil
}

// MintKeys returns n SecureKey records with unique codes, ready for
// CreateBatch. Collisions within the batch are retried locally; uniqueness
// against the store is enforced by the code column's unique constraint.
func MintKeys(prefix string, n int, expiresAt *time.Time, description string) ([]*SecureKey, error) {
	seen := make(map[string]struct{}, n)
	keys := make([]*SecureKey, 0, n)

	for len(keys) < n {
		code, err := GenerateKeyCode(prefix)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		keys = append(keys, &SecureKey{
			Code:        code,
			Status:      KeyStatusUnused,
			ExpiresAt:   expiresAt,
			Description: description,
		})
	}

	return keys, nil
}
