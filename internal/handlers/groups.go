package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onarrival/onarrival/internal/models"
	"github.com/onarrival/onarrival/internal/storage"
	"github.com/onarrival/onarrival/internal/validation"
	pkghttp "github.com/onarrival/onarrival/pkg/http"
)

// GroupHandler manages contact groups and their members.
type GroupHandler struct {
	store *storage.GroupStore
}

func NewGroupHandler(store *storage.GroupStore) *GroupHandler {
	return &GroupHandler{store: store}
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type addContactRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Phone string `json:"phone" validate:"required,min=7,max=20"`
}

type groupListResponse struct {
	Success bool           `json:"success"`
	Groups  []models.Group `json:"groups"`
}

// List handles GET /api/groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.LoadGroups()
	if err != nil {
		pkghttp.WriteInternalError(w, "failed to load groups")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, groupListResponse{Success: true, Groups: groups})
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	name, err := validation.GroupName(req.Name)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.store.AddGroup(name); err != nil {
		writeStorageError(w, err, "group already exists")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, pkghttp.Response{Success: true, Message: "group created"})
}

// Delete handles DELETE /api/groups/{name}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name, err := validation.GroupName(chi.URLParam(r, "name"))
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.store.DeleteGroup(name); err != nil {
		writeStorageError(w, err, "")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Response{Success: true, Message: "group deleted"})
}

// AddContact handles POST /api/groups/{name}/contacts
func (h *GroupHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	groupName, err := validation.GroupName(chi.URLParam(r, "name"))
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	var req addContactRequest
	if err := decodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	contactName, err := validation.ContactName(req.Name)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	phone, err := validation.Phone(req.Phone)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	contact := models.Contact{Name: contactName, Phone: phone}
	if err := h.store.AddContact(groupName, contact); err != nil {
		writeStorageError(w, err, "contact already in group")
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, pkghttp.Response{Success: true, Message: "contact added"})
}

// RemoveContact handles DELETE /api/groups/{name}/contacts/{phone}
func (h *GroupHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	groupName, err := validation.GroupName(chi.URLParam(r, "name"))
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	phone, err := validation.Phone(chi.URLParam(r, "phone"))
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.store.RemoveContact(groupName, phone); err != nil {
		writeStorageError(w, err, "")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, pkghttp.Response{Success: true, Message: "contact removed"})
}

// writeStorageError maps storage sentinel errors to HTTP responses.
func writeStorageError(w http.ResponseWriter, err error, conflictMsg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "not found")
	case errors.Is(err, models.ErrConflict):
		if conflictMsg == "" {
			conflictMsg = "conflict"
		}
		pkghttp.WriteConflict(w, conflictMsg)
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		pkghttp.WriteInternalError(w, "storage error")
	}
}
