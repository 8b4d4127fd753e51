package tenant

import (
	"context"

	"github.com/legastream/legastream/internal/models"
)

type contextKey string

const userKey contextKey = "user"

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// UserIDFromContext returns the authenticated user's id. The second
// return is false when the request is unauthenticated.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if u := UserFromContext(ctx); u != nil {
		return u.ID, true
	}
	return 0, false
}
