package service

import (
	"github.com/raghavk/vidtube/internal/config"
	"github.com/raghavk/vidtube/internal/repository"
)

type Services struct {
	Token   *TokenService
	Auth    *AuthService
	Profile *ProfileService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	tokens := NewTokenService(cfg)
	return &Services{
		Token:   tokens,
		Auth:    NewAuthService(repos.User, tokens),
		Profile: NewProfileService(repos.User, repos.Video, repos.Subscription),
	}
}
