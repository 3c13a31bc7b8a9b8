// Package credgen isolates every source of generated credential material so
// tests can substitute a deterministic generator.
package credgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%"
	passwordLength   = 12
)

type Generator interface {
	// TemporaryPassword returns a 12-character password from a fixed
	// alphanumeric+symbol alphabet.
	TemporaryPassword() (string, error)

	// VerificationCode returns a 4-digit numeric code for non-cash payments.
	VerificationCode() (string, error)

	// AdminEmail composes the auto-generated school admin address, e.g.
	// admin.jean.dupont@monecole.dabali.bf.
	AdminEmail(firstName, lastName, schoolName string) string
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) TemporaryPassword() (string, error) {
	var sb strings.Builder
	for i := 0; i < passwordLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", fmt.Errorf("rand.Int -> %w", err)
		}
		sb.WriteByte(passwordAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

func (g *RandomGenerator) VerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("rand.Int -> %w", err)
	}

	return fmt.Sprintf("%04d", n.Int64()), nil
}

func (g *RandomGenerator) AdminEmail(firstName, lastName, schoolName string) string {
	return fmt.Sprintf("admin.%v.%v@%v.dabali.bf", slug(firstName), slug(lastName), slug(schoolName))
}

// slug lowercases and strips everything but letters and digits so names like
// "Mon École" become a usable mail-domain label.
func slug(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == 'é' || r == 'è' || r == 'ê' || r == 'ë':
			sb.WriteRune('e')
		case r == 'à' || r == 'â':
			sb.WriteRune('a')
		case r == 'ô' || r == 'ö':
			sb.WriteRune('o')
		case r == 'î' || r == 'ï':
			sb.WriteRune('i')
		case r == 'û' || r == 'ü' || r == 'ù':
			sb.WriteRune('u')
		case r == 'ç':
			sb.WriteRune('c')
		}
	}

	return sb.String()
}
