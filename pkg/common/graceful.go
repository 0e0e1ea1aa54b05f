package common

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ShutdownHook runs after the servers stop accepting work, before they are
// shut down. Errors are logged and shutdown continues.
type ShutdownHook func(ctx context.Context) error

// RunServersWithShutdown starts every server and blocks until ctx is done or
// a server fails. Hooks then run in order, each limited to cfg.Hook, and the
// servers are shut down within cfg.Shutdown.
func RunServersWithShutdown(ctx context.Context, cfg TimeoutConfig, servers []*http.Server, hooks ...ShutdownHook) error {
	failed := make(chan error, len(servers))
	for _, server := range servers {
		go func(s *http.Server) {
			log.Printf("starting server on %s", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				failed <- err
			}
		}(server)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
	case runErr = <-failed:
		log.Printf("server failed: %v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown)
	defer cancel()
	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(shutdownCtx, cfg.Hook)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		hCancel()
	}
	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown of %s failed: %v", server.Addr, err)
		}
	}
	log.Printf("shutdown complete")
	return runErr
}

type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	}
}

// LoadTimeoutConfig overrides defaults from LISTING_READ_HEADER_TIMEOUT,
// LISTING_READ_TIMEOUT, LISTING_WRITE_TIMEOUT, LISTING_IDLE_TIMEOUT,
// LISTING_SHUTDOWN_TIMEOUT and LISTING_HOOK_TIMEOUT. Values are durations
// ("750ms") or whole seconds; invalid values keep the default.
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	apply := func(curr *time.Duration, env string) {
		v := os.Getenv("LISTING_" + env)
		if v == "" {
			return
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*curr = d
		} else if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*curr = time.Duration(n) * time.Second
		}
	}
	apply(&defaults.ReadHeader, "READ_HEADER_TIMEOUT")
	apply(&defaults.Read, "READ_TIMEOUT")
	apply(&defaults.Write, "WRITE_TIMEOUT")
	apply(&defaults.Idle, "IDLE_TIMEOUT")
	apply(&defaults.Shutdown, "SHUTDOWN_TIMEOUT")
	apply(&defaults.Hook, "HOOK_TIMEOUT")
	return defaults
}

func NewServerWithTimeouts(addr string, handler http.Handler, cfg TimeoutConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeader,
		ReadTimeout:       cfg.Read,
		WriteTimeout:      cfg.Write,
		IdleTimeout:       cfg.Idle,
	}
}
