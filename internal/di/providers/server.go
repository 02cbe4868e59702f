package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/j0yzhu/GameWebApp/internal/api"
	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/config"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/service"
	"github.com/j0yzhu/GameWebApp/internal/validation"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	repos := do.MustInvoke[*RepositoriesHandle](i)
	sessions := do.MustInvoke[*auth.SessionService](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	services := &api.Services{
		Games:    do.MustInvoke[*service.GameService](i),
		Users:    do.MustInvoke[*service.UserService](i),
		Reviews:  do.MustInvoke[*service.ReviewService](i),
		Wishlist: do.MustInvoke[*service.WishlistService](i),
		Health:   repos.Pinger,
	}

	handler, err := api.NewServer(services, sessions, limiter.KeyedRateLimiter, v, api.Options{
		SecureCookies:      cfg.Auth.SecureCookies,
		CORSAllowedOrigins: cfg.API.CORSAllowedOrigins,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "repository", cfg.Data.Repository)

	return &HTTPServerHandle{Server: srv}, nil
}
