package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/fullstack-bloglist/bloglist-e2e/internal/app"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/config"
	"github.com/fullstack-bloglist/bloglist-e2e/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "bloglist-server",
	Short: "Reference bloglist application for the e2e suite",
	Long: `Bloglist reference server

Serves the bloglist API and its single page frontend from one origin.
The /api/testing/reset endpoint is mounted when testing.enabled is true.`,
	Version: version.String(),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bloglist-server %s\n", rootCmd.Version)
	},
}

var (
	configPathFlag string
	portFlag       int
)

func init() {
	serveCmd.Flags().StringVar(&configPathFlag, "config", ".", "Directory containing config.yaml")
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "Override server.port")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(configPathFlag); err != nil {
		return err
	}
	cfg := config.Get()
	if portFlag > 0 {
		cfg.Server.Port = portFlag
	}
	gin.SetMode(cfg.App.GinMode())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      a.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[bloglist] listening on %s (testing endpoints: %v)", srv.Addr, cfg.Testing.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[bloglist] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
