package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var errBadToken = errors.New("token not valid")

const accessTTL = 30 * time.Minute

type accessClaims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// issuer signs HS256 access tokens and mints opaque refresh tokens.
type issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	store  *Store
}

func (i *issuer) Issue(u User) (access, refresh string, err error) {
	access, err = i.access(u.ID)
	if err != nil {
		return "", "", err
	}
	refresh = uuid.NewString()
	i.store.SaveRefresh(refresh, u.ID)
	return access, refresh, nil
}

func (i *issuer) access(userID int) (string, error) {
	now := i.now()
	claims := accessClaims{
		UserID:    userID,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Refresh exchanges a refresh token for a new access token.
func (i *issuer) Refresh(token string) (string, error) {
	id, ok := i.store.RefreshOwner(token)
	if !ok {
		return "", errBadToken
	}
	return i.access(id)
}

// Verify returns the user id carried by a valid access token.
func (i *issuer) Verify(token string) (int, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadToken, err)
	}
	if claims.TokenType != "access" {
		return 0, errBadToken
	}
	return claims.UserID, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

func hashPassword(password string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
