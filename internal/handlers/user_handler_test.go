package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwrp/backend/internal/models"
	"github.com/fwrp/backend/internal/services"
)

func seedUser(t *testing.T, env *testEnv, prof *models.UserProfile) {
	t.Helper()
	require.NoError(t, env.users.Create(context.Background(), prof))
}

func TestListUsersReturnsBareArray(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, &models.UserProfile{ID: "u1", UID: "u1", Name: "Alice"})
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []*models.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestUpdateUserRequiresID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"city":"Toronto"}`))
	rec := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID required", decodeBody(t, rec)["error"])
}

func TestUpdateUserPatchesOnlySuppliedFields(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, &models.UserProfile{ID: "u1", UID: "u1", Name: "Alice", City: "Montreal", Bio: "hi"})

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"id":"u1","city":"Toronto"}`))
	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := env.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Toronto", got.City)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "hi", got.Bio)
}

func TestUpdateUserRejectsBadPhone(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, &models.UserProfile{ID: "u1", UID: "u1", Name: "Alice", Phone: "5551234567"})

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"id":"u1","phone":"555-bad"}`))
	rec := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := env.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "5551234567", got.Phone)
}

func TestDeleteUserWithoutTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	req := httptest.NewRequest(http.MethodDelete, "/users", strings.NewReader(`{"id":"u2"}`))
	rec := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, rec)["error"])

	_, err := env.users.GetByID(context.Background(), "u2")
	assert.NoError(t, err)
	assert.Empty(t, env.identity.deleted)
}

func TestDeleteUserWithBadTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.identity.err = services.ErrInvalidToken
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	req := httptest.NewRequest(http.MethodDelete, "/users", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err := env.users.GetByID(context.Background(), "u2")
	assert.NoError(t, err)
	assert.Empty(t, env.identity.deleted)
}

func TestDeleteUserByNonAdminIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "caller"
	seedUser(t, env, &models.UserProfile{ID: "caller", UID: "caller", Name: "Carol"})
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	req := httptest.NewRequest(http.MethodDelete, "/users", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden", decodeBody(t, rec)["error"])

	_, err := env.users.GetByID(context.Background(), "u2")
	assert.NoError(t, err)
	assert.Empty(t, env.identity.deleted)
}

func TestDeleteUserWithoutProfileIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "ghost"
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	req := httptest.NewRequest(http.MethodDelete, "/users", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteUserByAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "admin"
	seedUser(t, env, &models.UserProfile{ID: "admin", UID: "admin", Name: "Root", IsAdmin: true})
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	req := httptest.NewRequest(http.MethodDelete, "/users", strings.NewReader(`{"id":"u2"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	_, err := env.users.GetByID(context.Background(), "u2")
	assert.Equal(t, services.ErrUserNotFound, err)
	assert.Equal(t, []string{"u2"}, env.identity.deleted)
}

func TestDeleteUserRequiresID(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/users", strings.NewReader(`{}`))
	rec := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID required", decodeBody(t, rec)["error"])
}

func TestGetUserInfoContactSubset(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, &models.UserProfile{
		ID: "u1", UID: "u1", Name: "Alice", Phone: "5551234567",
		Avatar: "/uploads/avatars/a.jpg", Email: "alice@example.com", City: "Toronto",
	})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/users/u1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "5551234567", body["phone"])
	assert.Equal(t, "/uploads/avatars/a.jpg", body["avatar"])
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "city")
}

func TestGetUserInfoNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/users/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeBody(t, rec)["error"])
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "u9"

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Carol","phone":"5550001111"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	got, err := env.users.GetByID(context.Background(), "u9")
	require.NoError(t, err)
	assert.Equal(t, "Carol", got.Name)
	assert.Equal(t, "u9", got.UID)
	assert.False(t, got.IsAdmin)
	assert.NotEmpty(t, got.CreatedAt)
}

func TestCreateUserWithoutTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Carol"}`))
	rec := env.do(t, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUserConflict(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "u1"
	seedUser(t, env, &models.UserProfile{ID: "u1", UID: "u1", Name: "Alice"})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Alice again"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Profile already exists", decodeBody(t, rec)["error"])
}

func TestCreateUserRequiresName(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "u9"

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"phone":"5550001111"}`))
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeBody(t, rec)["error"])
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "u1"
	seedUser(t, env, &models.UserProfile{ID: "u1", UID: "u1", Name: "Alice"})

	body, contentType := multipartBody(t, nil, "avatar")
	req := httptest.NewRequest(http.MethodPost, "/users/u1/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	avatarURL, _ := resp["avatar"].(string)
	require.NotEmpty(t, avatarURL)
	assert.True(t, strings.HasPrefix(avatarURL, "/uploads/avatars/"), "unexpected url %q", avatarURL)

	got, err := env.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, avatarURL, got.Avatar)
}

func TestUploadAvatarForAnotherUserIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.identity.uid = "u1"
	seedUser(t, env, &models.UserProfile{ID: "u2", UID: "u2", Name: "Bob"})

	body, contentType := multipartBody(t, nil, "avatar")
	req := httptest.NewRequest(http.MethodPost, "/users/u2/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := env.do(t, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	got, err := env.users.GetByID(context.Background(), "u2")
	require.NoError(t, err)
	assert.Empty(t, got.Avatar)
}
