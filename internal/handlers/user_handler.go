package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fwrp/backend/internal/middleware"
	"github.com/fwrp/backend/internal/models"
	"github.com/fwrp/backend/internal/services"
	"github.com/fwrp/backend/internal/validation"
)

// UserHandler is the directory surface over profile records. Deletion is the
// one privileged operation in the system: it requires a verified credential
// whose profile carries the isAdmin flag.
type UserHandler struct {
	users       services.UserDirectory
	identity    services.IdentityService
	media       services.MediaStore
	maxUploadMB int64
}

func NewUserHandler(users services.UserDirectory, identity services.IdentityService, media services.MediaStore, maxUploadMB int64) *UserHandler {
	return &UserHandler{
		users:       users,
		identity:    identity,
		media:       media,
		maxUploadMB: maxUploadMB,
	}
}

// ListUsers returns all profile records verbatim.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		log.Printf("[ListUsers] store error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if req.ID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("User ID required"))
		return
	}

	if req.Phone != nil {
		if err := validation.Phone(*req.Phone); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
			return
		}
	}

	fields := req.Fields()
	if len(fields) > 0 {
		ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
		defer cancel()

		if err := h.users.Patch(ctx, req.ID, fields); err != nil {
			log.Printf("[UpdateUser] user=%s error=%v", req.ID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update user"))
			return
		}
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse())
}

// DeleteUser removes the target's profile record and identity record. The
// caller must present a verifiable bearer credential and the caller's own
// profile must carry the isAdmin flag.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if body.ID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("User ID required"))
		return
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	idToken := strings.TrimPrefix(authHeader, "Bearer ")

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	callerUID, err := h.identity.VerifyToken(ctx, idToken)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	caller, err := h.users.GetByID(ctx, callerUID)
	if err != nil || !caller.IsAdmin {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Forbidden"))
		return
	}

	if err := h.users.Delete(ctx, body.ID); err != nil {
		log.Printf("[DeleteUser] admin=%s target=%s store error: %v", callerUID, body.ID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	if err := h.identity.DeleteUser(ctx, body.ID); err != nil {
		log.Printf("[DeleteUser] admin=%s target=%s identity error: %v", callerUID, body.ID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	log.Printf("[DeleteUser] admin=%s deleted user %s", callerUID, body.ID)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse())
}

// GetUserInfo returns the contact subset of a profile: name, phone, avatar.
func (h *UserHandler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.users.GetByID(ctx, userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[GetUserInfo] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.PublicUserInfo{
		Name:   prof.Name,
		Phone:  prof.Phone,
		Avatar: prof.Avatar,
	})
}

// CreateUser creates the caller's own profile record. isAdmin is honored
// only here; no later operation can elevate it.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		log.Printf("[CreateUser] validation errors: %v", errs)
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing required fields"))
		return
	}
	if req.Phone != "" {
		if err := validation.Phone(req.Phone); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
			return
		}
	}

	prof := &models.UserProfile{
		ID:         userID,
		UID:        userID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Bio:        req.Bio,
		Avatar:     req.Avatar,
		IsAdmin:    req.IsAdmin,
		CreatedAt:  models.NowISO(),
	}

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.users.Create(ctx, prof); err != nil {
		if err == services.ErrUserExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Profile already exists"))
			return
		}
		log.Printf("[CreateUser] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse())
}

// UploadAvatar stores a new avatar image under avatars/ and patches the
// caller's profile with the returned URL. The previous avatar object is left
// in place at the media store.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "userId")
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	if userID != targetID {
		writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Forbidden"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No avatar file provided"))
		return
	}
	defer file.Close()

	ctx, cancel := contextWithTimeout(r.Context(), storeTimeout)
	defer cancel()

	avatarURL, err := h.media.Upload(ctx, "avatars", header.Filename, file)
	if err != nil {
		log.Printf("[UploadAvatar] user=%s upload error: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	if err := h.users.Patch(ctx, userID, map[string]interface{}{"avatar": avatarURL}); err != nil {
		log.Printf("[UploadAvatar] user=%s store error: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Server error"))
		return
	}

	writeJSON(w, http.StatusOK, models.AvatarResponse{Success: true, Avatar: avatarURL})
}
