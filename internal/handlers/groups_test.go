package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onarrival/onarrival/internal/storage"
)

func newGroupRouter(t *testing.T) (*chi.Mux, *storage.GroupStore) {
	t.Helper()
	store, err := storage.NewGroupStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	h := NewGroupHandler(store)
	router := chi.NewRouter()
	router.Get("/api/groups", h.List)
	router.Post("/api/groups", h.Create)
	router.Delete("/api/groups/{name}", h.Delete)
	router.Post("/api/groups/{name}/contacts", h.AddContact)
	router.Delete("/api/groups/{name}/contacts/{phone}", h.RemoveContact)
	return router, store
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	r := httptest.NewRequest(method, path, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, r)
	return recorder
}

func TestGroups_CreateListDelete(t *testing.T) {
	router, _ := newGroupRouter(t)

	recorder := doJSON(router, "POST", "/api/groups", `{"name":"hikers"}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(router, "GET", "/api/groups", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "hikers")

	// Duplicate name conflicts
	recorder = doJSON(router, "POST", "/api/groups", `{"name":"hikers"}`)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder = doJSON(router, "DELETE", "/api/groups/hikers", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(router, "DELETE", "/api/groups/hikers", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGroups_CreateRejectsBadNames(t *testing.T) {
	router, _ := newGroupRouter(t)

	recorder := doJSON(router, "POST", "/api/groups", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(router, "POST", "/api/groups", `{"name":"bad/name"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(router, "POST", "/api/groups", `not json`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGroups_Contacts(t *testing.T) {
	router, store := newGroupRouter(t)
	require.NoError(t, store.AddGroup("hikers"))

	recorder := doJSON(router, "POST", "/api/groups/hikers/contacts", `{"name":"Alice","phone":"5551234567"}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)

	// Phone is normalized to E.164 before storage
	group, err := store.GetGroup("hikers")
	require.NoError(t, err)
	require.Len(t, group.Contacts, 1)
	assert.Equal(t, "+15551234567", group.Contacts[0].Phone)

	// Same number a second time conflicts
	recorder = doJSON(router, "POST", "/api/groups/hikers/contacts", `{"name":"Alice B","phone":"+15551234567"}`)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	// Removing uses the normalized form
	recorder = doJSON(router, "DELETE", "/api/groups/hikers/contacts/+15551234567", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	group, err = store.GetGroup("hikers")
	require.NoError(t, err)
	assert.Empty(t, group.Contacts)
}

func TestGroups_AddContactValidation(t *testing.T) {
	router, store := newGroupRouter(t)
	require.NoError(t, store.AddGroup("hikers"))

	recorder := doJSON(router, "POST", "/api/groups/hikers/contacts", `{"name":"Alice","phone":"not-a-phone"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(router, "POST", "/api/groups/hikers/contacts", `{"name":"","phone":"+15551234567"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(router, "POST", "/api/groups/missing/contacts", `{"name":"Alice","phone":"+15551234567"}`)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
