// Package id generates lexicographically sortable identifiers.
package id

import (
	"crypto/rand"
	"time"
)

// Crockford Base32 alphabet. I, L, O, U are excluded.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: 10 characters of millisecond
// timestamp followed by 16 characters of randomness. IDs sort by
// creation time.
func NewULID() string {
	buf := make([]byte, 0, 26)
	buf = appendTimestamp(buf, uint64(time.Now().UnixMilli()), 10)
	buf = appendRandom(buf, 10, 16)
	return string(buf)
}

// NewShortID returns a 16-character ID: 6 characters of timestamp
// (lower 30 bits of milliseconds, unique for about 34 years) followed
// by 10 characters of randomness. URL-safe and sortable like a ULID,
// for places where 26 characters is too long.
func NewShortID() string {
	buf := make([]byte, 0, 16)
	buf = appendTimestamp(buf, uint64(time.Now().UnixMilli())&0x3FFFFFFF, 6)
	buf = appendRandom(buf, 6, 10)
	return string(buf)
}

// appendTimestamp encodes the low chars*5 bits of ts, most significant
// group first.
func appendTimestamp(dst []byte, ts uint64, chars int) []byte {
	for i := chars - 1; i >= 0; i-- {
		dst = append(dst, alphabet[(ts>>(uint(i)*5))&0x1F])
	}
	return dst
}

// appendRandom encodes n random bytes as chars base32 characters,
// MSB first, zero-padding the final group when the bits run short.
func appendRandom(dst []byte, n, chars int) []byte {
	src := make([]byte, n)
	if _, err := rand.Read(src); err != nil {
		// crypto/rand failing is effectively fatal on any supported
		// platform, but a time-seeded value keeps IDs flowing.
		now := uint64(time.Now().UnixNano())
		for j := range src {
			src[j] = byte(now >> (uint(j%8) * 8))
		}
	}

	var acc uint64
	var bits int
	i := 0
	for c := 0; c < chars; c++ {
		for bits < 5 && i < len(src) {
			acc = acc<<8 | uint64(src[i])
			bits += 8
			i++
		}
		if bits < 5 {
			acc <<= uint(5 - bits)
			bits = 5
		}
		bits -= 5
		dst = append(dst, alphabet[(acc>>uint(bits))&0x1F])
	}
	return dst
}
