package credgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemporaryPassword(t *testing.T) {
	g := NewRandomGenerator()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		password, err := g.TemporaryPassword()
		require.NoError(t, err)

		assert.Len(t, password, passwordLength)
		for _, c := range []byte(password) {
			assert.True(t, strings.IndexByte(passwordAlphabet, c) >= 0, "unexpected character %q", c)
		}
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1, "passwords should not repeat every time")
}

func TestVerificationCode(t *testing.T) {
	g := NewRandomGenerator()

	for i := 0; i < 50; i++ {
		code, err := g.VerificationCode()
		require.NoError(t, err)

		require.Len(t, code, 4)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q is not numeric", code)
		}
	}
}

func TestAdminEmail(t *testing.T) {
	g := NewRandomGenerator()

	tests := []struct {
		firstName string
		lastName  string
		school    string
		want      string
	}{
		{"Jean", "Dupont", "Mon École", "admin.jean.dupont@monecole.dabali.bf"},
		{"Aïcha", "Ouédraogo", "Lycée Ouaga 2000", "admin.aicha.ouedraogo@lyceeouaga2000.dabali.bf"},
		{"François", "Kaboré", "Sainte-Thérèse", "admin.francois.kabore@saintetherese.dabali.bf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.AdminEmail(tt.firstName, tt.lastName, tt.school))
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "monecole", slug("Mon École"))
	assert.Equal(t, "ab12", slug("A b-1.2!"))
	assert.Equal(t, "", slug("---"))
}
