package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamhub/backend/internal/logging"
	"github.com/streamhub/backend/internal/middleware"
	"github.com/streamhub/backend/internal/models"
	"github.com/streamhub/backend/internal/repositories"
	"github.com/streamhub/backend/internal/storage"
)

// AuthHandler implements registration, login, logout, token rotation, and
// account maintenance endpoints.
type AuthHandler struct {
	Users         UserStore
	Tokens        TokenManager
	Media         MediaStore
	Limiter       RateLimiter
	SecureCookies bool
	NowFunc       func() time.Time
}

// Register handles POST /api/v1/auth/register. The request is multipart:
// text fields plus an avatar file (required) and cover image (optional).
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart request body")
		return
	}

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	password := r.FormValue("password")

	for field, value := range map[string]string{
		"fullName": fullName, "email": email, "username": username, "password": password,
	} {
		if value == "" {
			respondError(ctx, w, http.StatusBadRequest, field+" is required")
			return
		}
	}

	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if len(password) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	avatarURL, ok := h.uploadFormFile(w, r, "avatar", true)
	if !ok {
		return
	}
	coverURL, ok := h.uploadFormFile(w, r, "coverImage", false)
	if !ok {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to secure password")
		return
	}

	now := h.now()
	user := models.User{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Password:   string(hashed),
		Avatar:     avatarURL,
		CoverImage: coverURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "User already registered with this email or username")
			return
		}
		logger.Error("create user", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Something went wrong while registering the user")
		return
	}

	user.Password = ""
	respondData(ctx, w, http.StatusCreated, user, "User registered successfully")
}

// Login handles POST /api/v1/auth/login. Accepts username or email plus
// password and sets the token pair as httpOnly cookies.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "login") {
		respondError(ctx, w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	if identifier == "" {
		respondError(ctx, w, http.StatusBadRequest, "username or email is required")
		return
	}

	user, err := h.Users.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("login user lookup", "error", err)
		respondError(ctx, w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.Warn("login password mismatch", "userId", user.ID)
		respondError(ctx, w, http.StatusUnauthorized, "Invalid user credential")
		return
	}

	tokens, err := h.Tokens.IssuePair(ctx, user.ID)
	if err != nil {
		logger.Error("issue token pair", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.setAuthCookies(w, tokens)

	user.Password = ""
	user.RefreshToken = ""
	respondData(ctx, w, http.StatusOK, loginResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "User logged in successfully")
}

// Logout handles POST /api/v1/auth/logout: revokes the refresh token and
// clears both cookies.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := h.Tokens.Revoke(ctx, user.ID); err != nil {
		logging.FromContext(ctx).Error("revoke session", "error", err, "userId", user.ID)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	h.clearAuthCookies(w)
	respondData(ctx, w, http.StatusOK, struct{}{}, "User logged out")
}

// Refresh handles POST /api/v1/auth/refresh: rotates the refresh token. The
// presented token comes from the cookie or the request body.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	presented := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			presented = strings.TrimSpace(req.RefreshToken)
		}
	}
	if presented == "" {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	tokens, err := h.Tokens.Rotate(ctx, presented)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	h.setAuthCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, tokens, "Access token refreshed successfully")
}

// ChangePassword handles POST /api/v1/auth/change-password.
func (h AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		respondError(ctx, w, http.StatusBadRequest, "Old and new passwords are required")
		return
	}
	if len(req.NewPassword) < 8 {
		respondError(ctx, w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	// The guard strips the hash, so reload the full record for comparison.
	stored, err := h.Users.FindByID(ctx, user.ID)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(req.OldPassword)) != nil {
		respondError(ctx, w, http.StatusBadRequest, "Incorrect password")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, http.StatusInternalServerError, "Failed to secure password")
		return
	}
	if err := h.Users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	respondData(ctx, w, http.StatusOK, struct{}{}, "Password changed successfully")
}

// CurrentUser handles GET /api/v1/users/me.
func (h AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	respondData(ctx, w, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount handles PATCH /api/v1/users/me.
func (h AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if fullName == "" && email == "" {
		respondError(ctx, w, http.StatusBadRequest, "fullName or email is required")
		return
	}
	if fullName == "" {
		fullName = user.FullName
	}
	if email == "" {
		email = user.Email
	} else if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid email address")
		return
	}

	updated, err := h.Users.UpdateDetails(ctx, user.ID, fullName, email)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondError(ctx, w, http.StatusConflict, "Email already in use")
			return
		}
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	updated.Password = ""
	updated.RefreshToken = ""
	respondData(ctx, w, http.StatusOK, updated, "Account details updated successfully")
}

// UpdateAvatar handles PATCH /api/v1/users/me/avatar.
func (h AuthHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar",
		func(user models.User) string { return user.Avatar },
		h.Users.UpdateAvatar,
		"Avatar updated successfully")
}

// UpdateCoverImage handles PATCH /api/v1/users/me/cover.
func (h AuthHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage",
		func(user models.User) string { return user.CoverImage },
		h.Users.UpdateCoverImage,
		"Cover image updated successfully")
}

func (h AuthHandler) updateImage(w http.ResponseWriter, r *http.Request, field string,
	current func(models.User) string,
	update func(ctx context.Context, userID, url string) (models.User, error),
	message string,
) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		respondError(ctx, w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "Invalid multipart request body")
		return
	}

	url, okUpload := h.uploadFormFile(w, r, field, true)
	if !okUpload {
		return
	}

	// Drop the superseded asset from the media store. Best effort: a failed
	// delete must not fail the update.
	if old := current(user); old != "" && h.Media != nil {
		if err := h.Media.Delete(ctx, storage.PublicIDFromURL(old)); err != nil {
			logger.Warn("delete old media asset", "error", err, "url", old)
		}
	}

	updated, err := update(ctx, user.ID, url)
	if err != nil {
		respondStoreError(ctx, w, err, "User not found")
		return
	}

	updated.Password = ""
	updated.RefreshToken = ""
	respondData(ctx, w, http.StatusOK, updated, message)
}

// uploadFormFile spools a multipart file to disk and pushes it to the media
// store, returning its public URL. Responds with an error and reports false
// when the field is required but missing or the upload fails.
func (h AuthHandler) uploadFormFile(w http.ResponseWriter, r *http.Request, field string, required bool) (string, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	file, header, err := r.FormFile(field)
	if err != nil {
		if !required {
			return "", true
		}
		respondError(ctx, w, http.StatusBadRequest, field+" file is required")
		return "", false
	}
	defer file.Close()

	localPath, err := spoolToTemp(file, header)
	if err != nil {
		logger.Error("spool upload", "error", err, "field", field)
		respondError(ctx, w, http.StatusInternalServerError, "Failed to process upload")
		return "", false
	}
	defer os.Remove(localPath)

	if h.Media == nil {
		respondError(ctx, w, http.StatusInternalServerError, "Media storage unavailable")
		return "", false
	}

	asset, err := h.Media.Upload(ctx, localPath)
	if err != nil {
		logger.Error("upload media", "error", err, "field", field)
		respondError(ctx, w, http.StatusInternalServerError, "Error while uploading "+field)
		return "", false
	}

	return asset.URL, true
}

func spoolToTemp(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (h AuthHandler) setAuthCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    tokens.RefreshToken,
		Path:     "/",
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.SecureCookies,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
