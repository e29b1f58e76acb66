// Package password hashes admin passwords with PBKDF2 using the Werkzeug text layout
// "pbkdf2:<digest>:<iterations>$<salt>$<hex digest>", so hashes created by the
// original Python deployment keep verifying.
package password

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600000
	saltLength        = 16
	saltChars         = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var ErrMalformedHash = errors.New("malformed password hash")

// Hash derives a pbkdf2:sha256 hash with a random salt.
func Hash(raw string) (string, error) {
	return HashWithIterations(raw, DefaultIterations)
}

// HashWithIterations is Hash with an explicit work factor.
func HashWithIterations(raw string, iterations int) (string, error) {
	if iterations < 1 {
		return "", fmt.Errorf("iterations must be positive, got %d", iterations)
	}
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", err
	}
	sum := derive(raw, salt, iterations, sha256.New, sha256.Size)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iterations, salt, hex.EncodeToString(sum)), nil
}

// Verify reports whether raw matches encoded. Malformed hashes never match.
func Verify(encoded, raw string) bool {
	method, salt, want, err := split(encoded)
	if err != nil {
		return false
	}
	newHash, size, iterations, err := parseMethod(method)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(want)
	if err != nil || len(expected) != size {
		return false
	}
	got := derive(raw, salt, iterations, newHash, size)
	return hmac.Equal(got, expected)
}

func derive(raw, salt string, iterations int, h func() hash.Hash, size int) []byte {
	return pbkdf2.Key([]byte(raw), []byte(salt), iterations, size, h)
}

func split(encoded string) (method, salt, digest string, err error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return "", "", "", ErrMalformedHash
	}
	return parts[0], parts[1], parts[2], nil
}

func parseMethod(method string) (func() hash.Hash, int, int, error) {
	fields := strings.Split(method, ":")
	if len(fields) < 2 || fields[0] != "pbkdf2" {
		return nil, 0, 0, ErrMalformedHash
	}

	iterations := DefaultIterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n < 1 {
			return nil, 0, 0, ErrMalformedHash
		}
		iterations = n
	} else if len(fields) > 3 {
		return nil, 0, 0, ErrMalformedHash
	}

	switch fields[1] {
	case "sha256":
		return sha256.New, sha256.Size, iterations, nil
	case "sha512":
		return sha512.New, sha512.Size, iterations, nil
	case "sha1":
		return sha1.New, sha1.Size, iterations, nil
	default:
		return nil, 0, 0, ErrMalformedHash
	}
}

func randomSalt(n int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(saltChars)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
