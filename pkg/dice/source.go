package dice

import (
	"crypto/rand"
	"math/big"
)

// Source is the randomness provider for rolls. Implementations must be
// safe for concurrent use.
type Source interface {
	// Intn returns a uniform random int in [0, n). n must be > 0.
	Intn(n int) int
}

// cryptoSource backs Source with crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns the default Source, backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}
