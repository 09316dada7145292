package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/divya8341883853/clothstore-backend/internal/users"
	"github.com/divya8341883853/clothstore-backend/pkg/auth"
	"github.com/divya8341883853/clothstore-backend/pkg/config"
	"github.com/divya8341883853/clothstore-backend/pkg/db"
	"github.com/divya8341883853/clothstore-backend/pkg/db/models"
	"github.com/divya8341883853/clothstore-backend/pkg/errors"
	"github.com/divya8341883853/clothstore-backend/pkg/logger"
)

// Service handles shopper registration and sign-in.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*SessionView, error)
	Login(ctx context.Context, input LoginInput) (*SessionView, error)
}

type service struct {
	repo    users.Repository
	jwtCfg  config.JWTConfig
	passCfg config.PasswordConfig
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(repo users.Repository, jwtCfg config.JWTConfig, passCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt config is required")
	}
	return &service{
		repo:    repo,
		jwtCfg:  jwtCfg,
		passCfg: passCfg,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*SessionView, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := auth.HashPassword(s.passCfg, input.Password)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "ux_users_email") {
			return nil, errors.New(errors.CodeConflict, "email already registered")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "creating user")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user registered")
	}
	return s.session(user)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*SessionView, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "looking up user")
	}
	if user == nil {
		return nil, errors.New(errors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, errors.New(errors.CodeUnauthorized, "invalid credentials")
	}

	return s.session(user)
}

func (s *service) session(user *models.User) (*SessionView, error) {
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "minting access token")
	}
	return &SessionView{User: toUserView(user), AccessToken: token}, nil
}
