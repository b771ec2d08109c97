package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrInvalidTransition))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewError(CodeValidation, "bad")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))

	wrapped := fmt.Errorf("service: %w", NewError(CodeNotFound, "order not found"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrConflict))
	assert.Equal(t, CodeNotFound, ErrorCodeOf(wrapped))
	assert.Equal(t, CodeInternal, ErrorCodeOf(errors.New("boom")))
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(CodeInternal, "save failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save failed: disk full", err.Error())
}

func TestTokenSigner(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	signer := NewTokenSigner([]byte("k"), "iss").WithClock(clock)

	token, exp, err := signer.GenerateToken(9, AccessToken, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), exp)

	claims, err := signer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(9), claims.UserID)
	assert.Equal(t, AccessToken, claims.Kind)
	assert.NotEmpty(t, claims.ID)

	other, _, err := signer.GenerateToken(9, AccessToken, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "jti makes every token unique")

	_, err = NewTokenSigner([]byte("k"), "other-issuer").WithClock(clock).ParseToken(token)
	assert.Error(t, err)

	now = now.Add(time.Minute)
	_, err = signer.ParseToken(token)
	assert.Error(t, err)
}

func TestTokenSignerRejectsNoneAlg(t *testing.T) {
	signer := NewTokenSigner([]byte("k"), "iss")
	claims := &CustomClaims{
		UserID: 1,
		Kind:   AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "iss",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.ParseToken(unsigned)
	assert.Error(t, err)

	_, err = signer.ParseToken("garbage")
	assert.Error(t, err)
}

func TestFormatCurrencyIDR(t *testing.T) {
	cases := map[float64]string{
		0:          "Rp 0",
		999:        "Rp 999",
		1000:       "Rp 1.000",
		15000.5:    "Rp 15.000,50",
		1234567.05: "Rp 1.234.567,05",
		-2500:      "-Rp 2.500",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrencyIDR(in), "%v", in)
	}
}

// flipLastChar keeps the token's decoded bytes but changes its text: the last
// base64url character of an HS256 signature carries two unused bits.
func flipLastChar(token string) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	last := strings.IndexByte(alphabet, token[len(token)-1])
	return token[:len(token)-1] + string(alphabet[last^1])
}

func TestTokenSignerRejectsNonCanonicalEncoding(t *testing.T) {
	signer := NewTokenSigner([]byte("k"), "iss")
	token, _, err := signer.GenerateToken(3, RefreshToken, time.Hour)
	require.NoError(t, err)

	mutated := flipLastChar(token)
	require.NotEqual(t, token, mutated)

	_, err = signer.ParseToken(mutated)
	assert.Error(t, err)
	_, err = signer.ParseToken(token)
	assert.NoError(t, err)
}
