package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash"
	"math"
	"math/big"
	"time"
)

// BuildFilename derives an object name of the form <hex digest>.<extension>.
// The digest input is a random non-negative int32 followed by the current local
// time, so names are practically but not provably unique.
func BuildFilename(extension string, newHash func() hash.Hash) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt32))
	if err != nil {
		return "", fmt.Errorf("draw random nonce: %w", err)
	}

	h := newHash()
	_, _ = h.Write([]byte(n.String() + time.Now().Format(time.RFC3339Nano)))

	return hex.EncodeToString(h.Sum(nil)) + "." + extension, nil
}
