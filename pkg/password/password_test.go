package password

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := HashWithIterations("123456", 1000)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "pbkdf2:sha256:1000$"))
	assert.True(t, Verify(encoded, "123456"))
	assert.False(t, Verify(encoded, "1234567"))
}

func TestHashUsesFreshSalt(t *testing.T) {
	a, err := HashWithIterations("secret", 10)
	require.NoError(t, err)
	b, err := HashWithIterations("secret", 10)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyWerkzeugLayout(t *testing.T) {
	// Built by hand the same way werkzeug's generate_password_hash does.
	salt := "abcdEFGH12345678"
	sum := pbkdf2.Key([]byte("gbhnjmkI23"), []byte(salt), 260000, sha256.Size, sha256.New)
	encoded := fmt.Sprintf("pbkdf2:sha256:260000$%s$%s", salt, hex.EncodeToString(sum))

	assert.True(t, Verify(encoded, "gbhnjmkI23"))
	assert.False(t, Verify(encoded, "gbhnjmki23"))
}

func TestVerifyRejectsMalformed(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain-text",
		"bcrypt$salt$abcd",
		"pbkdf2:md5:10$salt$abcd",
		"pbkdf2:sha256:x$salt$abcd",
		"pbkdf2:sha256:10$salt$zz",
		"pbkdf2:sha256:10$salt$abcd",
	} {
		assert.False(t, Verify(encoded, "anything"), encoded)
	}
}

func TestHashRejectsZeroIterations(t *testing.T) {
	_, err := HashWithIterations("x", 0)
	require.Error(t, err)
}
