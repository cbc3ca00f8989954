package api

import (
	"errors"
	"net/http"

	"github.com/jmilford/taskward/internal/api/shared"
	"github.com/jmilford/taskward/internal/domain"
	"github.com/jmilford/taskward/internal/service"
)

// UserHandler handles profile-related API requests.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile handles GET /profile.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateProfile handles PUT /profile. The user's own current values never
// count as uniqueness conflicts; collisions with other accounts come back
// as a 409 with per-field errors.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateProfileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, FieldErrorResponse{
			Errors: validationErrorsToFieldMap(err),
		})
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, service.UpdateProfileParams{
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Region:    req.Region,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			fields := make(map[string][]string, len(conflict.Fields))
			for _, field := range conflict.Fields {
				fields[field] = append(fields[field], "already in use")
			}
			shared.RespondWithJSON(w, r, http.StatusConflict, FieldErrorResponse{Errors: fields})
			return
		}
		if status := MapErrorToStatusCode(err); status == http.StatusBadRequest {
			shared.RespondWithJSON(w, r, http.StatusBadRequest, FieldErrorResponse{
				Errors: validationErrorsToFieldMap(err),
			})
			return
		}
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// DeleteAccount handles DELETE /profile. The account's tasks are removed
// with it.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}
