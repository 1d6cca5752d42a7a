// Package gameid issues identifiers for matches and deals. IDs are UUIDv7
// values rendered as 26-character Crockford base32 strings (the TypeID
// suffix format), so they sort by creation time.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the length of an encoded ID.
const Length = 26

// Generator produces IDs from an optional entropy source.
type Generator struct {
	entropy io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto randomness;
// tests pass a deterministic reader.
func NewGenerator(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ID using crypto randomness.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new ID.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.entropy != nil {
		id, err = uuid.NewV7FromReader(g.entropy)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate uuid: " + err.Error())
	}
	return encodeBase32(id)
}

// encodeBase32 encodes 128 bits as 26 base32 characters. The value is
// treated as a 130-bit number with two leading zero bits, so the first
// character is always 0-7.
func encodeBase32(id uuid.UUID) string {
	bit := func(pos int) uint8 {
		// pos counts from the least significant bit of the 128-bit value
		if pos >= 128 {
			return 0
		}
		return (id[15-pos/8] >> (pos % 8)) & 1
	}

	var b strings.Builder
	b.Grow(Length)
	for i := range Length {
		var v uint8
		for j := range 5 {
			v = v<<1 | bit(129-(5*i+j))
		}
		b.WriteByte(alphabet[v])
	}
	return b.String()
}

// Validate checks if an ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("id must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("id first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
