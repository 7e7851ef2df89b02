package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/seller-finance-api/internal/application/auth"
	"github.com/jhoicas/seller-finance-api/internal/application/dto"
	"github.com/jhoicas/seller-finance-api/internal/domain"
	"github.com/jhoicas/seller-finance-api/internal/infrastructure/memory"
	"github.com/jhoicas/seller-finance-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newUC() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewStore().Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"})
}

func TestRegisterUser_NormalizaEmailYRechazaDuplicado(t *testing.T) {
	uc := newUC()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "  Loja@Example.COM ", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "loja@example.com", u.Email)
	assert.Equal(t, "loja@example.com", u.Name, "sin nombre se usa el email")

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "loja@example.com", Password: "outrasenha"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))
}

func TestLogin_TokenConUsuario(t *testing.T) {
	uc := newUC()
	ctx := context.Background()
	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "loja@example.com", Password: "segredo123", Name: "Loja"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "LOJA@example.com", Password: "segredo123"})
	require.NoError(t, err)
	userID, email, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, "loja@example.com", email)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "loja@example.com", Password: "errada"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "segredo123"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
