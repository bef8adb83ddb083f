package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserEndpoint(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/user/create", "", map[string]any{
		"email":    "test@londonappdev.com",
		"password": "testpass",
		"name":     "Test name",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "test@londonappdev.com", body["email"])
	assert.Equal(t, "Test name", body["name"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")
}

func TestCreateUserDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodPost, "/user/create", "", map[string]any{
		"email":    "test@example.com",
		"password": "testpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserShortPassword(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/user/create", "", map[string]any{
		"email":    "test@example.com",
		"password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserMissingEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodPost, "/user/create", "", map[string]any{
		"password": "testpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTokenEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodPost, "/user/token", "", map[string]any{
		"email":    "test@example.com",
		"password": "testpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON[TokenResponse](t, w)
	assert.Len(t, body.Token, 40)
}

func TestCreateTokenBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodPost, "/user/token", "", map[string]any{
		"email":    "test@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeJSON[map[string]any](t, w)
	assert.NotContains(t, body, "token")
}

func TestRevokeTokenEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodDelete, "/user/token", token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The revoked token no longer authenticates.
	w = app.doJSON(t, http.MethodGet, "/user/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, http.MethodGet, "/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodGet, "/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON[MeResponse](t, w)
	assert.Equal(t, "test@example.com", body.Email)
	assert.Equal(t, "Test name", body.Name)
}

func TestMePostNotAllowed(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodPost, "/user/me", token, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestUpdateMeEndpoint(t *testing.T) {
	app := newTestApp(t)
	user, token := app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodPatch, "/user/me", token, map[string]any{
		"name":     "new name",
		"password": "newpassword",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON[MeResponse](t, w)
	assert.Equal(t, "new name", body.Name)

	_, err := app.users.Authenticate(context.Background(), user.Email, "newpassword")
	assert.NoError(t, err)
}

func TestUpdateMeShortPassword(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "test@example.com")

	w := app.doJSON(t, http.MethodPatch, "/user/me", token, map[string]any{"password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
