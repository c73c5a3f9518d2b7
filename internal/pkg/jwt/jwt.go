package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider. Issuing is
// limited to EncodeAccessToken, used by tooling and tests.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	EncodeAccessToken(userID, email, role string, isAdmin bool, ttl time.Duration) (string, error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) EncodeAccessToken(userID, email, role string, isAdmin bool, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"user_id":  userID,
		"email":    email,
		"role":     role,
		"is_admin": isAdmin,
		"type":     "access",
	}
	jwtauth.SetExpiryIn(claims, ttl)
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, err
}
