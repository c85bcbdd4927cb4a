package providers

import (
	"context"
	"net/http"
	"portal/internal/structures"
	"strings"
)

type userContextKey struct{}

// UserContext is the caller identity forwarded by the portal front proxy.
// Groups is only filled when the groups header is present.
type UserContext struct {
	Name   string
	Groups []string
}

func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

func UserFromContext(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(userContextKey{}).(UserContext)
	return user, ok
}

// UserMiddleware rejects requests that arrive without the user header.
func UserMiddleware(conf *structures.Config) func(http.Handler) http.Handler {
	userHeader := conf.Portal.UserHeader
	groupsHeader := conf.Portal.GroupsHeader
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := strings.TrimSpace(r.Header.Get(userHeader))
			if name == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"missing user identity"}`))
				return
			}
			user := UserContext{Name: name}
			if groupsHeader != "" {
				user.Groups = splitGroups(r.Header.Values(groupsHeader))
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func splitGroups(values []string) []string {
	var groups []string
	for _, v := range values {
		for _, g := range strings.Split(v, ",") {
			if g = strings.TrimSpace(g); g != "" {
				groups = append(groups, g)
			}
		}
	}
	return groups
}
