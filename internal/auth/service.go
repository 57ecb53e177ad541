package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/sami992010/ProBTC/internal/ledger"
	"github.com/sami992010/ProBTC/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is what the token resolves to. Everything downstream trusts this
// pair and never sees the token itself.
type Identity struct {
	UserID  int64
	IsAdmin bool
}

type Service struct {
	ledger *ledger.Ledger
	issuer string
	secret []byte
	ttl    time.Duration
}

func NewService(l *ledger.Ledger, issuer string, secret []byte, ttl time.Duration) *Service {
	return &Service{ledger: l, issuer: issuer, secret: secret, ttl: ttl}
}

type claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"adm"`
}

func (s *Service) Register(username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, errors.New("username and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	return s.ledger.CreateUser(username, string(hash), false)
}

func (s *Service) Login(username, password string) (string, error) {
	u, ok := s.ledger.UserByName(username)
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.signToken(u)
}

func (s *Service) signToken(u model.User) (string, error) {
	now := time.Now().UTC()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		IsAdmin: u.IsAdmin,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *Service) ParseToken(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return Identity{}, errors.New("invalid token")
	}
	if c.Issuer != s.issuer {
		return Identity{}, errors.New("invalid issuer")
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, errors.New("invalid subject")
	}
	return Identity{UserID: userID, IsAdmin: c.IsAdmin}, nil
}
