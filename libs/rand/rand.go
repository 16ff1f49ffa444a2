package rand

import (
	"math/rand"
	"time"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// NewRandomStringWithCharset generates a random string of the given size
// using the given characters set.
func NewRandomStringWithCharset(size int, charset string) string {
	b := make([]byte, size)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

// RandomStr generates a random string of the given size using the default
// characters set, which is alphanumeric.
func RandomStr(size int) string {
	return NewRandomStringWithCharset(size, charset)
}

// RandomBytes generates random bytes of the given size.
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	seededRand.Read(b)
	return b
}
