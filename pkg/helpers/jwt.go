package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles generation and validation of bearer tokens.
// Regular tokens carry only the user id; admin tokens also carry the admin
// role and a shorter lifetime.
type JWTManager struct {
	Secret   []byte
	TTL      time.Duration
	AdminTTL time.Duration
	Issuer   string

	now func() time.Time
}

var defaultManager *JWTManager

func NewJWTManager(secret string, ttl, adminTTL time.Duration, issuer string) *JWTManager {
	m := &JWTManager{
		Secret:   []byte(secret),
		TTL:      ttl,
		AdminTTL: adminTTL,
		Issuer:   issuer,
		now:      time.Now,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

const RoleClaimAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token was issued by the admin login.
func (c *Claims) IsAdmin() bool { return c.Role == RoleClaimAdmin }

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// GenerateToken issues a regular session token.
func (m *JWTManager) GenerateToken(userID string) (string, time.Time, error) {
	return m.sign(userID, "", m.TTL)
}

// GenerateAdminToken issues an admin session token.
func (m *JWTManager) GenerateAdminToken(userID string) (string, time.Time, error) {
	return m.sign(userID, RoleClaimAdmin, m.AdminTTL)
}

func (m *JWTManager) sign(userID, role string, ttl time.Duration) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.clock), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
