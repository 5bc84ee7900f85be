package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/raghavk/vidtube/internal/api/middleware"
	"github.com/raghavk/vidtube/internal/api/respond"
	"github.com/raghavk/vidtube/internal/config"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/media"
	"github.com/raghavk/vidtube/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	mediaStore  media.Store
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, mediaStore media.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mediaStore:  mediaStore,
		cfg:         cfg,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register accepts a multipart form: text fields plus a required avatar file
// and an optional cover image. Both uploads complete before the account is
// created, since the record requires resolved references.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.cfg.UploadLimit); err != nil {
		respond.Error(w, domain.Validation("invalid multipart form"))
		return
	}

	input := service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		FullName: r.FormValue("fullName"),
		Password: r.FormValue("password"),
	}

	avatar, err := h.uploadFormFile(r, "avatar")
	if err != nil {
		respond.Error(w, domain.Validation("avatar file is required"))
		return
	}
	input.Avatar = avatar.URL

	if cover, err := h.uploadFormFile(r, "coverImage"); err == nil {
		input.CoverImage = cover.URL
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, user, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, domain.Validation("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken)
	respond.JSON(w, http.StatusOK, LoginResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("invalid token"))
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		respond.Error(w, err)
		return
	}

	clearAuthCookies(w, h.cfg)
	respond.JSON(w, http.StatusOK, nil, "User logged out successfully")
}

// Refresh exchanges a refresh token for a new pair. The token may arrive via
// the refreshToken cookie, the JSON body, or a bearer header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented := h.extractRefreshToken(r)

	pair, err := h.authService.Refresh(r.Context(), presented)
	if err != nil {
		respond.Error(w, err)
		return
	}

	setAuthCookies(w, h.cfg, pair.AccessToken, pair.RefreshToken)
	respond.JSON(w, http.StatusOK, TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Tokens refreshed successfully")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("invalid token"))
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, domain.Validation("invalid request body"))
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, nil, "Password changed successfully")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("invalid token"))
		return
	}

	respond.JSON(w, http.StatusOK, user, "Current user fetched successfully")
}

func (h *AuthHandler) extractRefreshToken(r *http.Request) string {
	if cookie, err := r.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}

	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func (h *AuthHandler) uploadFormFile(r *http.Request, field string) (*media.Object, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	object, err := h.mediaStore.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("ERROR [handlers.uploadFormFile] upload %s failed: %v", field, err)
		return nil, err
	}
	return object, nil
}
