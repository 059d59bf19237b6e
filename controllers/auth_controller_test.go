package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	_, r := newTestServer(t)

	cases := []struct {
		name    string
		body    gin.H
		code    int
		appCode int
	}{
		{"short name", gin.H{"name": "A", "email": "a@example.com", "password": "secret123"}, http.StatusBadRequest, 40002},
		{"bad email", gin.H{"name": "Alice", "email": "not-an-email", "password": "secret123"}, http.StatusBadRequest, 40003},
		{"short password", gin.H{"name": "Alice", "email": "a@example.com", "password": "123"}, http.StatusBadRequest, 40004},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", tc.body)
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.appCode, env.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, r := newTestServer(t)

	body := gin.H{"name": "Alice", "email": "dup@example.com", "password": "secret123"}

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 40901, env.Code)
	assert.Equal(t, "user with this email already exists", env.Message)
}

func TestRegisterDoesNotLeakSensitiveFields(t *testing.T) {
	_, r := newTestServer(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Alice", "email": "leak@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		User map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.NotContains(t, payload.User, "password_hash")
	assert.NotContains(t, payload.User, "id")
	assert.NotEmpty(t, payload.User["public_id"])
}

func TestLoginWrongCredentials(t *testing.T) {
	_, r := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Wrong password and unknown email must be indistinguishable.
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40120, env.Code)

	w, env2 := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, env.Code, env2.Code)
	assert.Equal(t, env.Message, env2.Message)
}

func TestMeAndLogout(t *testing.T) {
	_, r := newTestServer(t)
	_, token := registerAndLogin(t, r)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.NotEmpty(t, user.Email)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Token is revoked until natural expiry.
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40104, env.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, r := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/health-data?user_id=1"},
		{http.MethodPost, "/api/v1/health-data"},
		{http.MethodGet, "/api/v1/goals?user_id=1"},
		{http.MethodGet, "/api/v1/trends?user_id=1&days=7"},
		{http.MethodGet, "/api/v1/statistics?user_id=1"},
	}
	for _, p := range paths {
		w, _ := doJSON(t, r, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}

func TestUnknownAPIRoute(t *testing.T) {
	_, r := newTestServer(t)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, env.Code)
}
