package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/api/middleware"
	"github.com/raghavk/vidtube/internal/api/respond"
	"github.com/raghavk/vidtube/internal/config"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/media"
	"github.com/raghavk/vidtube/internal/service"
)

type AccountHandler struct {
	authService *service.AuthService
	mediaStore  media.Store
	cfg         *config.Config
}

func NewAccountHandler(authService *service.AuthService, mediaStore media.Store, cfg *config.Config) *AccountHandler {
	return &AccountHandler{
		authService: authService,
		mediaStore:  mediaStore,
		cfg:         cfg,
	}
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("invalid token"))
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, domain.Validation("invalid request body"))
		return
	}

	updated, err := h.authService.UpdateAccount(r.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, updated, "Account updated successfully")
}

func (h *AccountHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.authService.UpdateAvatar)
}

func (h *AccountHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.authService.UpdateCoverImage)
}

// updateImage uploads the new file first, persists its reference, then
// releases the previous object best-effort. A failed delete only logs; the
// account already points at the new object.
func (h *AccountHandler) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID uuid.UUID, ref string) (*domain.User, string, error),
) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("invalid token"))
		return
	}

	if err := r.ParseMultipartForm(h.cfg.UploadLimit); err != nil {
		respond.Error(w, domain.Validation("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		respond.Error(w, domain.Validation(field+" file is required"))
		return
	}
	defer file.Close()

	object, err := h.mediaStore.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		log.Printf("ERROR [handlers.updateImage] upload %s failed: %v", field, err)
		respond.Error(w, domain.Internal("failed to upload "+field))
		return
	}

	updated, old, err := update(r.Context(), user.ID, object.URL)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if old != "" {
		if err := h.mediaStore.Delete(r.Context(), old); err != nil {
			log.Printf("ERROR [handlers.updateImage] delete old %s failed: %v", field, err)
		}
	}

	respond.JSON(w, http.StatusOK, updated, "Account updated successfully")
}
