package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/api/middleware"
	"github.com/raghavk/vidtube/internal/api/respond"
	"github.com/raghavk/vidtube/internal/domain"
	"github.com/raghavk/vidtube/internal/service"
)

type ChannelHandler struct {
	profileService *service.ProfileService
}

func NewChannelHandler(profileService *service.ProfileService) *ChannelHandler {
	return &ChannelHandler{profileService: profileService}
}

// GetProfile serves the public channel view. Authentication is optional; a
// signed-in viewer gets their isSubscribed state computed.
func (h *ChannelHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var viewerID *uuid.UUID
	if viewer, ok := middleware.GetUser(r.Context()); ok {
		viewerID = &viewer.ID
	}

	profile, err := h.profileService.ChannelProfile(r.Context(), viewerID, username)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, profile, "Channel profile fetched successfully")
}

func (h *ChannelHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("invalid token"))
		return
	}

	history, err := h.profileService.WatchHistory(r.Context(), user.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, history, "Watch history fetched successfully")
}
