package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/ShopKeeper/internal/middleware"
	"github.com/atinyakov/ShopKeeper/internal/models"
	"github.com/atinyakov/ShopKeeper/internal/service"
	"github.com/go-chi/chi/v5"
)

// ListService defines the shopping-list operations required by the ListHandler.
// userID selects the namespace.
type ListService interface {
	GetLists(ctx context.Context, userID string) []models.ShoppingList
	SearchLists(ctx context.Context, term, userID string) []models.ShoppingList
	GetListByID(ctx context.Context, id, userID string) (*models.ShoppingList, bool)
	SaveList(ctx context.Context, list models.ShoppingList, userID string) models.ShoppingList
	DeleteList(ctx context.Context, id, userID string)
	ComputeStats(list models.ShoppingList) models.Stats
	CreateList(ctx context.Context, name, userID string) (models.ShoppingList, error)
	RenameList(ctx context.Context, id, name, userID string) (models.ShoppingList, error)
	AddItem(ctx context.Context, listID, name, quantity, userID string) (models.ShoppingListItem, error)
	SetItemChecked(ctx context.Context, listID, itemID string, checked bool, userID string) (models.ShoppingList, error)
	DeleteItem(ctx context.Context, listID, itemID, userID string) (models.ShoppingList, error)
	ClearCheckedItems(ctx context.Context, listID, userID string) (models.ShoppingList, error)
}

// ListHandler handles HTTP requests on the shopping lists of the active namespace.
type ListHandler struct {
	ListService ListService
}

// ListResponse is a list together with its completion figures.
type ListResponse struct {
	models.ShoppingList
	Stats models.Stats `json:"stats"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type checkRequest struct {
	Checked bool `json:"checked"`
}

func (h *ListHandler) withStats(l models.ShoppingList) ListResponse {
	return ListResponse{ShoppingList: l, Stats: h.ListService.ComputeStats(l)}
}

// List handles GET /api/lists, optionally filtered by the q query parameter.
func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	var lists []models.ShoppingList
	if q := r.URL.Query().Get("q"); q != "" {
		lists = h.ListService.SearchLists(r.Context(), q, userID)
	} else {
		lists = h.ListService.GetLists(r.Context(), userID)
	}
	out := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, h.withStats(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/lists.
func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	l, err := h.ListService.CreateList(r.Context(), req.Name, middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.withStats(l))
}

// Get handles GET /api/lists/{id}.
func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.ListService.GetListByID(r.Context(), chi.URLParam(r, "id"), middleware.GetUserIDFromContext(r.Context()))
	if !ok {
		writeError(w, service.ErrListNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.withStats(*l))
}

// Put handles PUT /api/lists/{id}: the body replaces (or creates) the list.
// The id in the path wins over the one in the body.
func (h *ListHandler) Put(w http.ResponseWriter, r *http.Request) {
	var l models.ShoppingList
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	l.ID = chi.URLParam(r, "id")
	saved := h.ListService.SaveList(r.Context(), l, middleware.GetUserIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, h.withStats(saved))
}

// Rename handles PATCH /api/lists/{id}.
func (h *ListHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	l, err := h.ListService.RenameList(r.Context(), chi.URLParam(r, "id"), req.Name, middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withStats(l))
}

// Delete handles DELETE /api/lists/{id}. Unknown ids still answer 204.
func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.ListService.DeleteList(r.Context(), chi.URLParam(r, "id"), middleware.GetUserIDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/lists/{id}/items.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	item, err := h.ListService.AddItem(r.Context(), chi.URLParam(r, "id"), req.Name, req.Quantity, middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// CheckItem handles PATCH /api/lists/{id}/items/{itemID}.
func (h *ListHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	l, err := h.ListService.SetItemChecked(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), req.Checked, middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withStats(l))
}

// DeleteItem handles DELETE /api/lists/{id}/items/{itemID}.
func (h *ListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	_, err := h.ListService.DeleteItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearChecked handles DELETE /api/lists/{id}/items/checked.
func (h *ListHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	l, err := h.ListService.ClearCheckedItems(r.Context(), chi.URLParam(r, "id"), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.withStats(l))
}
