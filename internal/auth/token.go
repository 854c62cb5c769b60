package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todotrek/internal/apperr"
)

const issuer = "todotrek"

type accessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

type verificationClaims struct {
	jwt.RegisteredClaims
	Hash string `json:"hash"`
}

// TokenIssuer mints and verifies HS256 tokens: long-lived access tokens that
// carry a user id and short-lived verification tokens that wrap a stored
// one-shot hash.
type TokenIssuer struct {
	secret          []byte
	accessTTL       time.Duration
	verificationTTL time.Duration
	now             func() time.Time
}

func NewTokenIssuer(secret string, accessTTL, verificationTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:          []byte(secret),
		accessTTL:       accessTTL,
		verificationTTL: verificationTTL,
		now:             time.Now,
	}
}

func (i *TokenIssuer) VerificationTTL() time.Duration { return i.verificationTTL }

func (i *TokenIssuer) AccessToken(userID string) (string, error) {
	claims := accessClaims{RegisteredClaims: i.registered(i.accessTTL), UserID: userID}
	return i.sign(claims)
}

func (i *TokenIssuer) VerificationToken(hash string) (string, error) {
	claims := verificationClaims{RegisteredClaims: i.registered(i.verificationTTL), Hash: hash}
	return i.sign(claims)
}

// VerifyAccess returns the user id carried by an access token.
func (i *TokenIssuer) VerifyAccess(token string) (string, error) {
	var claims accessClaims
	if err := i.parse(token, &claims); err != nil {
		return "", err
	}
	if claims.UserID == "" {
		return "", apperr.New(apperr.KindUnauthenticated, "token has no subject")
	}
	return claims.UserID, nil
}

// VerifyVerification returns the hash wrapped by a verification token.
func (i *TokenIssuer) VerifyVerification(token string) (string, error) {
	var claims verificationClaims
	if err := i.parse(token, &claims); err != nil {
		return "", err
	}
	if claims.Hash == "" {
		return "", apperr.New(apperr.KindUnauthenticated, "token has no hash")
	}
	return claims.Hash, nil
}

func (i *TokenIssuer) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (i *TokenIssuer) sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *TokenIssuer) parse(token string, claims jwt.Claims) error {
	if token == "" {
		return apperr.New(apperr.KindUnauthenticated, "token is required")
	}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return apperr.Wrap(apperr.KindUnauthenticated, "token expired", err)
	}
	return apperr.Wrap(apperr.KindUnauthenticated, "invalid token", err)
}
