package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrTokenExpired           = errors.New("token has expired")
	ErrMissingClaim           = errors.New("required token claim is missing or invalid")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
