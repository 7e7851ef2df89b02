package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	tok, err := Generate("s3cr3t", "u-1", "loja@example.com", "seller-finance", 10)
	require.NoError(t, err)

	userID, email, err := Parse("s3cr3t", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "loja@example.com", email)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u-1", "", "", 10)
	assert.Error(t, err)
	_, _, err = Parse("", "x.y.z")
	assert.Error(t, err)
}

func TestUserIDVacio(t *testing.T) {
	tok, err := Generate("s3cr3t", "", "loja@example.com", "", 10)
	require.NoError(t, err)
	_, _, err = Parse("s3cr3t", tok)
	assert.ErrorContains(t, err, "user_id")
}
