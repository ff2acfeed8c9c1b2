package providers

import (
	"time"

	"github.com/samber/do/v2"

	"github.com/camiseteria/camiseteria-server/internal/auth"
	"github.com/camiseteria/camiseteria-server/internal/config"
	"github.com/camiseteria/camiseteria-server/internal/logger"
	"github.com/camiseteria/camiseteria-server/internal/ratelimit"
)

// AuthKey wraps the session key bytes.
type AuthKey []byte

// ProvideAuthKey loads the configured session key or generates one under the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.ResolveKey(cfg.Auth.SessionKey, cfg.App.DataDir)
	if err != nil {
		return nil, err
	}

	log.Info("Session key loaded",
		"configured", cfg.Auth.SessionKey != "",
		"session_ttl", cfg.Auth.SessionTTL,
	)
	if !auth.IsHash(cfg.Auth.AdminPassword) && cfg.IsProduction() {
		log.Warn("ADMIN_PASSWORD is plain text; store an argon2id hash from `catalogctl hash-password`")
	}

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO session token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(key), cfg.Auth.SessionTTL)
}

// LoginLimiterHandle stops the limiter's sweeper on shutdown.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLoginLimiter provides the per-IP login rate limiter.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	limiter := ratelimit.New(cfg.Auth.LoginRateLimit, time.Minute, cfg.Auth.LoginBurst)
	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}
