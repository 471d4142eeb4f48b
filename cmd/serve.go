package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Shivanand-hulikatti/eventreg/internal/handler"
	"github.com/Shivanand-hulikatti/eventreg/internal/i18n"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server. The schema is migrated and the bootstrap admin
account is created first when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// ── 1. Open storage ───────────────────────────────────────────────────
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	svc := newServices(store, cfg)
	created, err := svc.accounts.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Printf("✓ Created admin account %q", cfg.AdminUsername)
	}

	h := handler.New(handler.Deps{
		Accounts:       svc.accounts,
		Events:         svc.events,
		Registrations:  svc.registrations,
		Sessions:       security.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies),
		Translator:     i18n.NewTranslator(cfg.DefaultLocale),
		UploadDir:      svc.images.Dir(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// ── 3. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler.NewRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("✓ Server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Block until SIGINT, SIGTERM or a listener failure.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case <-quit:
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("server stopped")
	return nil
}
