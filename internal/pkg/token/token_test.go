package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRE_HOURS", "1")

	tok, err := GenerateToken("user_2abc", "citizen@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := ValidateToken(tok)
	require.NoError(t, err)
	require.Equal(t, "user_2abc", claims.UserID)
	require.Equal(t, "user_2abc", claims.Subject)
	require.Equal(t, "citizen@example.com", claims.Email)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := GenerateToken("user_2abc", "citizen@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = ValidateToken(tok)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := &Claims{
		UserID: "user_2abc",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(signed)
	require.Error(t, err)
}

func TestValidateToken_RejectsUnsignedAlg(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user_2abc"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(unsigned)
	require.Error(t, err)
}
