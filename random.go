package visitortoken

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"
)

// Source supplies uniformly distributed integers. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

// lockedSource serializes access to a Source that is not safe for
// concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.IntN(n)
}

// globalSource draws from the math/rand/v2 top-level generator, which is
// already safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// NewSeededSource returns a deterministic source for the given seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomString returns length symbols drawn uniformly, with replacement, from
// alphabet. Symbols are runes, so multi-byte alphabets are allowed.
func RandomString(src Source, alphabet string, length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: negative length %d", ErrInvalidArgument, length)
	}
	if length == 0 {
		return "", nil
	}
	if alphabet == "" {
		return "", fmt.Errorf("%w: empty alphabet for length %d", ErrInvalidArgument, length)
	}

	var sb strings.Builder
	if isASCII(alphabet) {
		sb.Grow(length)
		for i := 0; i < length; i++ {
			sb.WriteByte(alphabet[src.IntN(len(alphabet))])
		}
		return sb.String(), nil
	}

	symbols := []rune(alphabet)
	for i := 0; i < length; i++ {
		sb.WriteRune(symbols[src.IntN(len(symbols))])
	}
	return sb.String(), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
