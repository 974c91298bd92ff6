package utils

import (
	"math/rand"
	"strings"
)

// Charset for random string generation
const Charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// StringWithCharset generates a random string with the specified length and charset
func StringWithCharset(length int, charset string) string {
	randombytes := make([]byte, length)
	for i := range randombytes {
		num := rand.Intn(len(charset))
		randombytes[i] = charset[num]
	}

	return string(randombytes)
}

// RequestID returns a short random identifier used to correlate log lines
// belonging to one HTTP request.
func RequestID() string {
	return StringWithCharset(8, Charset)
}

// SanitizeInput strips line breaks from externally supplied strings before
// they are logged or echoed.
func SanitizeInput(input string) string {
	input = strings.ReplaceAll(input, "\n", "")
	input = strings.ReplaceAll(input, "\r", "")
	return input
}
