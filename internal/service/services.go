package service

import (
	"github.com/narravo/configd/internal/config"
	"github.com/narravo/configd/internal/logger"
	"github.com/narravo/configd/internal/store"
)

type Services struct {
	ConfigService  ConfigService
	AuthService    AuthService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cache ValueCache, cfg config.App, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		ConfigService:  NewConfigService(storages.SettingRepository, storages.OverrideRepository, cache, logger),
		AuthService:    NewAuthService(cfg, logger),
		AppInfoService: appInfo,
	}, nil
}
