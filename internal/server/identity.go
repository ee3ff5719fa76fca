package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"tailscale.com/client/tailscale/apitype"
)

type contextKey int

const (
	userIDKey contextKey = iota
	userInfoKey
)

// UserInfo describes the caller as returned by /api/v1/me.
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
}

// WhoIser resolves the tailnet identity behind a remote address.
// *local.Client from tsnet satisfies it.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// SetTailscale identifies callers by their tailnet login. It takes precedence
// over a dev user.
func (s *Server) SetTailscale(whois WhoIser) {
	s.whois = whois
}

// SetDevUser makes every request run as the given user. Used when the server
// is not on a tailnet.
func (s *Server) SetDevUser(info UserInfo) {
	s.devUser = &info
}

// identify resolves the caller and stores the user in the request context.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case s.whois != nil:
			who, err := s.whois.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil || who.UserProfile == nil {
				s.log.Warn("whois failed", "remote", r.RemoteAddr, "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			login, name := who.UserProfile.LoginName, who.UserProfile.DisplayName
			id, err := s.svc.GetOrCreateUser(r.Context(), login, name)
			if err != nil {
				s.log.Error("resolving user", "login", login, "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			r = r.WithContext(withUser(r.Context(), UserInfo{ID: id, Login: login, DisplayName: name}))
		case s.devUser != nil:
			DevIdentity(*s.devUser)(next).ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DevIdentity returns middleware that runs every request as info.
func DevIdentity(info UserInfo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), info)))
		})
	}
}

func withUser(ctx context.Context, info UserInfo) context.Context {
	ctx = context.WithValue(ctx, userIDKey, info.ID)
	return context.WithValue(ctx, userInfoKey, info)
}

func userIDFromContext(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func userInfoFromContext(r *http.Request) (UserInfo, bool) {
	info, ok := r.Context().Value(userInfoKey).(UserInfo)
	return info, ok
}

// mustUserID returns the caller's ID or writes 401.
func mustUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := userIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}

// requireUser rejects requests that identify did not attach a user to.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := mustUserID(w, r); !ok {
			return
		}
		next.ServeHTTP(w, r)
	})
}
