package models

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey struct{}

// userContextKey is also the gin context key set by LoadIdentity.
const userContextKey = "user"

// SetUserContext returns a copy of ctx carrying user. A nil user leaves ctx unchanged.
func SetUserContext(ctx context.Context, user *User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, user)
}

// GetUserFromContext returns the user restored for this request, or nil.
func GetUserFromContext(ctx context.Context) *User {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if userVal, exists := ginCtx.Get(userContextKey); exists {
			if user, ok := userVal.(*User); ok {
				return user
			}
		}
		if ginCtx.Request == nil {
			return nil
		}
		ctx = ginCtx.Request.Context()
	}

	user, _ := ctx.Value(contextKey{}).(*User)
	return user
}

// SetGinUser stores user both in the gin context and in the request context.
func SetGinUser(c *gin.Context, user *User) {
	c.Set(userContextKey, user)
	c.Set("user_id", user.ID)
	c.Request = c.Request.WithContext(SetUserContext(c.Request.Context(), user))
}

// GetUsernameFromContext extracts the username from the user object in context.
// Returns empty string if user cannot be determined.
func GetUsernameFromContext(ctx context.Context) string {
	if user := GetUserFromContext(ctx); user != nil {
		return user.Username
	}
	return ""
}

// GetUserIDFromContext returns the id of the restored user, or "" if none.
func GetUserIDFromContext(ctx context.Context) string {
	if user := GetUserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}
