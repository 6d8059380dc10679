package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// hashRounds is the number of key-stretching rounds applied to every
// password hash. Must not change: existing stored hashes depend on it.
const hashRounds = 10_000

// saltLength is the salt size in bytes.
const saltLength = 16

// generateSalt returns 16 cryptographically random bytes, falling back to
// a nanosecond-timestamp-derived salt if the system RNG is unavailable.
func generateSalt() [saltLength]byte {
	var salt [saltLength]byte
	if _, err := rand.Read(salt[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		for i := range salt {
			salt[i] = byte((now >> (uint(i) * 8)) & 0xff)
		}
	}
	return salt
}

// hashWithSalt runs the bespoke salted key-stretching hash over password
// and salt, producing a 32-byte digest. The mixing schedule and the
// forward/backward round passes must be reproduced exactly: each pass
// mutates a single 32-byte state array in place and reads neighboring
// bytes already updated earlier in the same pass, so the loop order is
// load-bearing, not incidental.
func hashWithSalt(password string, salt []byte) [32]byte {
	var state [32]byte

	pw := []byte(password)
	for i, b := range pw {
		state[i%32] ^= b
		state[(i+17)%32] += b
	}

	for i, b := range salt {
		state[(i+7)%32] ^= b
		state[(i+23)%32] += b
	}

	for round := uint32(0); round < hashRounds; round++ {
		roundByte := byte(round & 0xff)

		for i := 0; i < 32; i++ {
			prev := state[(i+31)%32]
			next := state[(i+1)%32]
			state[i] = (state[i]+prev)*33 + next + roundByte
		}

		for i := 31; i >= 0; i-- {
			prev := state[(i+1)%32]
			saltByte := salt[i%len(salt)]
			state[i] = state[i]*17 + prev + saltByte
		}
	}

	return state
}

// HashPassword hashes password with a freshly generated random salt and
// returns it as "salt_hex:hash_hex".
func HashPassword(password string) string {
	salt := generateSalt()
	hash := hashWithSalt(password, salt[:])
	return fmt.Sprintf("%s:%s", hex.EncodeToString(salt[:]), hex.EncodeToString(hash[:]))
}

// VerifyPassword checks password against storedHash, which must be in
// "salt_hex:hash_hex" format. As a migration fallback, a storedHash that
// is exactly 16 hex characters is checked against the legacy DJB2 hash
// instead.
func VerifyPassword(password, storedHash string) bool {
	saltHex, hashHex, ok := splitHash(storedHash)
	if !ok {
		if len(storedHash) == 16 && isHex(storedHash) {
			return legacyHash(password) == storedHash
		}
		return false
	}

	if len(saltHex) != saltLength*2 {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	computed := hashWithSalt(password, salt)
	computedHex := hex.EncodeToString(computed[:])

	return constantTimeCompare(computedHex, hashHex)
}

func splitHash(stored string) (salt, hash string, ok bool) {
	idx := -1
	for i, c := range stored {
		if c == ':' {
			if idx != -1 {
				return "", "", false
			}
			idx = i
		}
	}
	if idx == -1 {
		return "", "", false
	}
	return stored[:idx], stored[idx+1:], true
}

func isHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func constantTimeCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// legacyHash reproduces the DJB2-style hash used before the salted
// key-stretch scheme, for verifying passwords migrated from older
// stores.
func legacyHash(password string) string {
	var hash uint64 = 5381
	for _, b := range []byte(password) {
		hash = hash*33 + uint64(b)
	}
	return fmt.Sprintf("%016x", hash)
}
