package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/narravo/configd/internal/config"
	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/utils"
	"github.com/narravo/configd/models"
)

type authService struct {
	cfg config.App

	logger *logger.Logger
}

// NewAuthService constructs the [AuthService] that signs and validates
// configd access tokens with the configured HMAC key.
func NewAuthService(cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *authService) CreateToken(ctx context.Context, userID, role string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateJWTToken(s.cfg.TokenIssuer, userID, role, s.cfg.TokenDuration, s.cfg.TokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "*authService.CreateToken").Msg("error creating token")
		return models.Token{}, fmt.Errorf("creating token: %w", err)
	}

	return token, nil
}

func (s *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, s.cfg.TokenSignKey, s.cfg.TokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		log.Err(err).Str("func", "*authService.ParseToken").Msg("error parsing token")
		return models.Token{}, fmt.Errorf("parsing token: %w", err)
	}

	return token, nil
}
