package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/ligue-convenios/internal/entity"
	"github.com/xavierca1/ligue-convenios/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-convenios/internal/usecase"
)

type ScopeResolver interface {
	Resolve(ctx context.Context, session *entity.Session) (*usecase.Scope, error)
}

// requestScope resolves the caller's scope from the session set by the auth
// middleware. On failure the response is already written.
func requestScope(w http.ResponseWriter, r *http.Request, resolver ScopeResolver) (*usecase.Scope, bool) {
	session, _ := middleware.SessionFromContext(r.Context())
	scope, err := resolver.Resolve(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return scope, true
}
