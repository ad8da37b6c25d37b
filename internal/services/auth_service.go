package services

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"numa/internal/domain"
	"numa/internal/repos"
)

const tokenTTL = 12 * time.Hour

type AuthService struct {
	Admins *repos.AdminRepo
	Secret []byte
	now    func() time.Time
}

func NewAuthService(admins *repos.AdminRepo, secret string) *AuthService {
	return &AuthService{Admins: admins, Secret: []byte(secret), now: time.Now}
}

// Login checks the admin credentials and issues a signed HS256 token.
func (s *AuthService) Login(email, password string) (*domain.Admin, string, error) {
	if len(s.Secret) == 0 {
		return nil, "", ErrBadCreds
	}
	a, err := s.Admins.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	claims := jwt.MapClaims{
		"admin_id": a.ID,
		"email":    a.Email,
		"role":     "admin",
		"exp":      s.now().Add(tokenTTL).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return nil, "", err
	}
	return a, tok, nil
}
