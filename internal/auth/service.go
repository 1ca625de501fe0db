package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/sebuszqo/FinanceDRE/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternalError      = errors.New("internal Server Error")
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (*user.User, string, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// Register creates the account and signs a token for it right away.
func (s *service) Register(ctx context.Context, name, email, password string) (*user.User, string, error) {
	newUser, err := s.userService.Register(ctx, name, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtManager.GenerateAccessJWT(newUser.ID)
	if err != nil {
		return nil, "", ErrInternalError
	}
	return newUser, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	existingUser, err := s.userService.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	token, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		return nil, "", ErrInternalError
	}
	return existingUser, token, nil
}
