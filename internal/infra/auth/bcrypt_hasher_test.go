package auth

import (
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	password := "Sup3rSecret!"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("Wr0ngPassword!", hash))
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	first, err := hasher.Hash("Sup3rSecret!")
	assert.NoError(t, err)
	second, err := hasher.Hash("Sup3rSecret!")
	assert.NoError(t, err)

	// Same password must not produce the same hash twice.
	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	assert.NoError(t, hasher.ValidatePasswordStrength("Sup3rSecret!"))

	weakPasswords := []string{
		"short1!",          // too short
		"alllowercase1!",   // no uppercase
		"ALLUPPERCASE1!",   // no lowercase
		"NoNumbersHere!",   // no digit
		"NoSpecialChars1",  // no special character
	}
	for _, password := range weakPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.Error(t, err, "Expected error for weak password: %s", password)
	}
}

func TestBcryptHasher_ValidatePasswordStrength_CustomPolicy(t *testing.T) {
	cfg := &config.Config{
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        4,
			RequireLowercase: true,
		},
	}
	hasher := NewBcryptHasher(cfg)

	// Only length and lowercase are required under this policy.
	assert.NoError(t, hasher.ValidatePasswordStrength("abcd"))
	assert.Error(t, hasher.ValidatePasswordStrength("abc"))
	assert.Error(t, hasher.ValidatePasswordStrength("ABCD"))
}
