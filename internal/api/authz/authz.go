package authz

import (
	"context"
	"errors"

	"github.com/codr1/Courtbook/internal/booking"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// AuthUser is the identity asserted by the bearer token.
type AuthUser struct {
	ID      int64
	Name    string
	Email   string
	IsAdmin bool
}

// Actor converts the user into the booking core's caller identity.
func (u *AuthUser) Actor() booking.Actor {
	if u == nil {
		return booking.Actor{}
	}
	return booking.Actor{ID: u.ID, Name: u.Name, Email: u.Email, Admin: u.IsAdmin}
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// IsAdmin reports whether the given AuthUser is a club administrator.
func IsAdmin(user *AuthUser) bool {
	return user != nil && user.IsAdmin
}

// RequireAdmin returns ErrUnauthenticated without a user and ErrForbidden
// for members.
func RequireAdmin(ctx context.Context) error {
	user := UserFromContext(ctx)
	if user == nil {
		return ErrUnauthenticated
	}
	if !user.IsAdmin {
		return ErrForbidden
	}
	return nil
}
