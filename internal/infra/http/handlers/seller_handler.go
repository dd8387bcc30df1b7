package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

type sellerService interface {
	Create(ctx context.Context, scope *usecase.Scope, input usecase.CreateSellerInput) (*entity.Seller, error)
	List(ctx context.Context, scope *usecase.Scope) ([]*entity.Seller, error)
	Delete(ctx context.Context, scope *usecase.Scope, sellerID string) error
}

type SellerHandler struct {
	Scopes  ScopeResolver
	Sellers sellerService
}

func NewSellerHandler(scopes ScopeResolver, sellers sellerService) *SellerHandler {
	return &SellerHandler{Scopes: scopes, Sellers: sellers}
}

// CreateHandler (POST /sellers)
func (h *SellerHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	var input usecase.CreateSellerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	seller, err := h.Sellers.Create(r.Context(), scope, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, seller)
}

// ListHandler (GET /sellers)
func (h *SellerHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	sellers, err := h.Sellers.List(r.Context(), scope)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sellers)
}

// DeleteHandler (DELETE /sellers/{id})
func (h *SellerHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	scope, ok := requestScope(w, r, h.Scopes)
	if !ok {
		return
	}

	if err := h.Sellers.Delete(r.Context(), scope, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
