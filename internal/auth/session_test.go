package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)
	return token
}

func TestVerifyExtractsPrincipal(t *testing.T) {
	v := NewVerifier(testKey, "")
	token := signToken(t, jwt.MapClaims{
		"sub":         "user_abc",
		"email":       "a@x.com",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"nickname":    "ada",
		"picture":     "https://img.example/ada.png",
	})

	p, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", p.ClerkUserID)
	require.NotNil(t, p.Email)
	assert.Equal(t, "a@x.com", *p.Email)
	assert.Equal(t, "Ada", *p.FirstName)
	assert.Equal(t, "Lovelace", *p.LastName)
	assert.Equal(t, "ada", *p.Username)
	assert.Equal(t, "https://img.example/ada.png", *p.ImageURL)
}

func TestVerifyOmittedClaimsStayNil(t *testing.T) {
	v := NewVerifier(testKey, "")
	p, err := v.Verify(signToken(t, jwt.MapClaims{"sub": "user_abc"}))
	require.NoError(t, err)
	assert.Nil(t, p.Email)
	assert.Nil(t, p.FirstName)
	assert.Nil(t, p.Username)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier(testKey, "https://clerk.example.com")

	cases := map[string]string{
		"wrong key":    mustSign(t, jwt.MapClaims{"sub": "u", "iss": "https://clerk.example.com", "exp": time.Now().Add(time.Hour).Unix()}, []byte("other-key")),
		"expired":      mustSign(t, jwt.MapClaims{"sub": "u", "iss": "https://clerk.example.com", "exp": time.Now().Add(-time.Hour).Unix()}, testKey),
		"wrong issuer": signToken(t, jwt.MapClaims{"sub": "u", "iss": "https://evil.example.com"}),
		"missing sub":  signToken(t, jwt.MapClaims{"iss": "https://clerk.example.com"}),
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		_, err := v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func mustSign(t *testing.T, claims jwt.MapClaims, key []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := NewVerifier(testKey, "")

	r := gin.New()
	r.GET("/me", RequireSession(v), func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"sub": p.ClerkUserID})
	})

	token := signToken(t, jwt.MapClaims{"sub": "user_abc"})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "__session", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
