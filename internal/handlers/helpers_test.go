package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"chirp/internal/auth"
	"chirp/internal/models"
	"chirp/internal/router"
	"chirp/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s := store.NewMemory()
	router.RegisterRoutes(r, s, testSecret)
	return r, s
}

// seedUser inserts a user+profile directly and returns it with a valid token.
func seedUser(t *testing.T, s *store.Memory, email, password string) (*models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username: email,
		Email:    email,
		Password: hash,
		Profile:  &models.Profile{Bio: "はじめまして"},
	}
	require.NoError(t, s.CreateUserWithProfile(user))

	token, err := auth.IssueToken(user.ID, testSecret)
	require.NoError(t, err)
	return user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
