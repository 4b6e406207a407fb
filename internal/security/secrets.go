package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// PasscodeDigits is the alphabet lock passcodes are drawn from.
const PasscodeDigits = "0123456789"

const (
	secretKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// SecretKeyLength is the size of a generated unlock-cookie signing key.
	SecretKeyLength = 48

	minTemporaryPasscodeLength = 4
)

var errEmptyAlphabet = errors.New("security: empty alphabet")

// NewSecretKey returns a random key for signing unlock cookies when none is
// configured.
func NewSecretKey() (string, error) {
	return randomFrom(secretKeyAlphabet, SecretKeyLength)
}

// NewTemporaryPasscode returns a numeric passcode printed by the reset
// command. Lengths below four are raised to four.
func NewTemporaryPasscode(length int) (string, error) {
	if length < minTemporaryPasscodeLength {
		length = minTemporaryPasscodeLength
	}
	return randomFrom(PasscodeDigits, length)
}

// randomFrom draws length bytes uniformly from alphabet using crypto/rand.
func randomFrom(alphabet string, length int) (string, error) {
	if alphabet == "" {
		return "", errEmptyAlphabet
	}
	if length <= 0 {
		return "", nil
	}

	upper := big.NewInt(int64(len(alphabet)))
	var builder strings.Builder
	builder.Grow(length)
	for builder.Len() < length {
		position, err := rand.Int(rand.Reader, upper)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		builder.WriteByte(alphabet[position.Int64()])
	}
	return builder.String(), nil
}
