// Command admin runs maintenance tasks against the TutorialHub database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/tutorialhub-backend/internal/app"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "TutorialHub maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadApp wires services without the HTTP surface, worker or scheduler.
func loadApp(ctx context.Context, migrate bool) (*app.App, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.DB.AutoMigrate = migrate
	cfg.Worker.Enabled = false
	cfg.Cron.Enabled = false
	return app.New(ctx, cfg, app.WithoutHTTP())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
