package mock

import (
	"net/http"
)

// Handler routes HTTP requests to the stub platform endpoints.
type Handler struct {
	// Service is the stub backend with endpoint handlers.
	Service *PlatformService
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/refresh":
		if h.Service.RefreshHandler != nil {
			h.Service.RefreshHandler(w, r)
		} else {
			h.Service.defaultRefreshHandler(w, r)
		}
	case "/auth/logout":
		if h.Service.LogoutHandler != nil {
			h.Service.LogoutHandler(w, r)
		} else {
			h.Service.defaultLogoutHandler(w, r)
		}
	case "/me":
		if h.Service.MeHandler != nil {
			h.Service.MeHandler(w, r)
		} else {
			h.Service.defaultMeHandler(w, r)
		}
	default:
		http.NotFound(w, r)
	}
}
