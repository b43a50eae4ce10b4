package services

import (
	"context"
	"errors"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a bearer credential fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// IdentityService verifies bearer credentials and manages identity records.
type IdentityService interface {
	// VerifyToken returns the stable user id the token was issued for.
	VerifyToken(ctx context.Context, idToken string) (string, error)
	// DeleteUser removes the identity record for the given user id.
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseIdentityService wraps the Firebase Admin auth client.
type FirebaseIdentityService struct {
	client *fbauth.Client
}

func NewFirebaseIdentityService(client *fbauth.Client) *FirebaseIdentityService {
	return &FirebaseIdentityService{client: client}
}

func (s *FirebaseIdentityService) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	return token.UID, nil
}

func (s *FirebaseIdentityService) DeleteUser(ctx context.Context, uid string) error {
	return s.client.DeleteUser(ctx, uid)
}

// JWTIdentityService verifies HMAC-signed tokens carrying a user_id claim.
// Used when Firebase is not configured (local development, tests); identity
// records live nowhere in that mode, so DeleteUser is a no-op.
type JWTIdentityService struct {
	secret []byte
}

func NewJWTIdentityService(secret string) *JWTIdentityService {
	return &JWTIdentityService{secret: []byte(secret)}
}

func (s *JWTIdentityService) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := jwt.Parse(idToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

func (s *JWTIdentityService) DeleteUser(ctx context.Context, uid string) error {
	return nil
}
