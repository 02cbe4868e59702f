package providers

import (
	"github.com/samber/do/v2"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/config"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/ratelimit"
)

// SessionKey wraps the session key bytes.
type SessionKey []byte

// ProvideSessionKey uses the configured key, or loads or generates one in the state directory.
func ProvideSessionKey(i do.Injector) (SessionKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if len(cfg.Auth.SessionKey) > 0 {
		return SessionKey(cfg.Auth.SessionKey), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.StatePath)
	if err != nil {
		return nil, err
	}
	cfg.Auth.SessionKey = key

	log.Info("Session key loaded",
		"state_path", cfg.Data.StatePath,
		"session_duration", cfg.Auth.SessionDuration,
	)

	return SessionKey(key), nil
}

// ProvideSessionService provides the PASETO session cookie service.
func ProvideSessionService(i do.Injector) (*auth.SessionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[SessionKey](i)

	return auth.NewSessionService([]byte(key), cfg.Auth.SessionDuration)
}

// ProvidePasswordHasher provides the configured password hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.PasswordHasher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewPasswordHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
}

// LoginLimiterHandle wraps the login rate limiter with Shutdownable.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter != nil {
		h.Stop()
	}
	return nil
}

// ProvideLoginLimiter provides the per-client limiter for login and registration.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	if cfg.Auth.LoginRatePerMinute <= 0 {
		return &LoginLimiterHandle{}, nil
	}
	limiter := ratelimit.PerMinute(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst)
	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}
