// Package sessionid generates the opaque tokens that identify a live game
// session. A fresh token is issued every time the session resets to the
// lobby, so a token never outlives the game it named.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Crockford's base32 alphabet, as used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource allows deterministic randomness to be injected in tests
type RandSource interface {
	Intn(n int) int
}

// Generator produces session tokens with configurable randomness
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource means crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new session token: a UUIDv7 encoded as a
// 26-character base32 string. Tokens sort by creation time.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new session token using the generator's RandSource
func (g *Generator) Generate() string {
	return encodeBase32(g.newUUIDv7())
}

// newUUIDv7 builds a 128-bit UUIDv7: 48-bit millisecond timestamp, version
// and variant bits, remainder random
func (g *Generator) newUUIDv7() [16]byte {
	var uuid [16]byte

	now := time.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.Intn(256))
		}
	} else {
		if _, err := rand.Read(uuid[6:]); err != nil {
			panic("failed to generate random bytes: " + err.Error())
		}
	}

	// Version 7, variant 10
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// encodeBase32 encodes 128 bits as 26 base32 characters, 5 bits per
// character
func encodeBase32(data [16]byte) string {
	result := make([]byte, 26)

	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks that a token is 26 characters of valid base32
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("session token must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session token first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		valid := false
		for _, validChar := range alphabet {
			if char == validChar {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
