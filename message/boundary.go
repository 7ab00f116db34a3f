package message

import (
	"crypto/rand"
	"strings"
)

const (
	// BoundaryLength is the minimum length of a generated boundary.
	BoundaryLength = 20

	boundaryRandom   = 12
	boundaryAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	// maxBoundaryTries bounds GenerateSafeBoundary.
	maxBoundaryTries = 16
)

// GenerateBoundary returns a new boundary for a multipart/<kind> envelope.
// It ends with random lowercase alphanumerics and is padded on the left to
// BoundaryLength with the kind repeated, e.g. "mixedmixa8k2j9x0q1zz".
func GenerateBoundary(kind string) string {
	if kind == "" {
		kind = "boundary"
	}

	random := make([]byte, 0, boundaryRandom)
	buf := make([]byte, boundaryRandom)
	for len(random) < boundaryRandom {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		for _, c := range buf {
			// reject the tail of the byte range to keep the draw uniform
			if c >= 252 {
				continue
			}
			random = append(random, boundaryAlphabet[int(c)%len(boundaryAlphabet)])
			if len(random) == boundaryRandom {
				break
			}
		}
	}

	pad := BoundaryLength - boundaryRandom
	prefix := strings.Repeat(kind, pad/len(kind)+1)[:pad]
	return prefix + string(random)
}

// GenerateSafeBoundary is GenerateBoundary, retried while the delimiter
// line would appear inside any of the given content.
func GenerateSafeBoundary(kind string, content ...string) string {
	var b string
	for i := 0; i < maxBoundaryTries; i++ {
		b = GenerateBoundary(kind)
		if !collides(b, content) {
			return b
		}
	}
	return b
}

func collides(b string, content []string) bool {
	delim := "--" + b
	for _, c := range content {
		if strings.Contains(c, delim) {
			return true
		}
	}
	return false
}
