package handlers

import (
	"errors"
	"net/http"
	"os"
	"regexp"

	"chirp/internal/auth"
	"chirp/internal/identicon"
	"chirp/internal/models"
	"chirp/internal/store"

	"github.com/gin-gonic/gin"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordPattern = regexp.MustCompile(`^\w{8,}$`)
)

// cookieTTL is the browser-side lifetime of the token cookie. Longer than
// the token itself; the signed expiry is what decides validity.
const cookieTTL = 60 * 60 * 24 * 7

type AuthHandler struct {
	store        store.Store
	secret       []byte
	secureCookie bool
}

func NewAuthHandler(s store.Store, secret []byte) *AuthHandler {
	return &AuthHandler{
		store:        s,
		secret:       secret,
		secureCookie: os.Getenv("APP_ENV") == "production",
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a User and its Profile atomically. The default avatar is
// an identicon derived from the email, so re-registering the same address
// would always produce the same image.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Value"})
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Value"})
		return
	}

	if _, err := h.store.UserByEmail(req.Email); err == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are already registered"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		serverError(c)
		return
	}

	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email address"})
		return
	}
	if !passwordPattern.MatchString(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(c)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Profile: &models.Profile{
			Bio:             "はじめまして",
			ProfileImageURL: identicon.DataURI(req.Email),
		},
	}
	if err := h.store.CreateUserWithProfile(&user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost a race with a concurrent registration for the same email.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are already registered"})
			return
		}
		serverError(c)
		return
	}

	// The Password field carries json:"-", so the hash never serializes.
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login collapses unknown-email and wrong-password into one response so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "your email address or password is not registered"})
		return
	}

	user, err := h.store.UserByEmail(req.Email)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "your email address or password is not registered"})
		return
	}

	token, err := auth.IssueToken(user.ID, h.secret)
	if err != nil {
		serverError(c)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, cookieTTL, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}
