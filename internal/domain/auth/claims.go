package auth

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID  string
	Email   string
	Role    string
	IsAdmin bool
}

// CallerFromContext extracts the caller from the verified token in ctx.
// The admin flag is granted by either an is_admin claim or the admin role.
func CallerFromContext(ctx context.Context) (Caller, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Caller{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Caller{}, fmt.Errorf("user_id: %w", ErrMissingClaim)
	}

	caller := Caller{UserID: userID}
	caller.Email, _ = claims["email"].(string)
	caller.Role, _ = claims["role"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	caller.IsAdmin = isAdmin || caller.Role == RoleAdmin

	return caller, nil
}

const RoleAdmin = "admin"
