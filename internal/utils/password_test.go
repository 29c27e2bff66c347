package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais mot de passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SelAleatoire(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

// Les comptes créés avant la migration argon2 gardent un hash bcrypt:
// la vérification doit continuer de les accepter.
func TestVerifyPassword_FallbackBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("ancien-secret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.True(t, IsBcryptHash(string(hash)))

	ok, err := VerifyPassword("ancien-secret", string(hash))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = VerifyPassword("autre", string(hash))
	assert.False(t, ok)
}

func TestVerifyPassword_HashInvalide(t *testing.T) {
	ok, err := VerifyPassword("secret", "pas-un-hash")
	assert.False(t, ok)
	assert.Error(t, err)
}
