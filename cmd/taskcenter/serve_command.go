package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskcenter/internal/logging"
	"taskcenter/internal/preflight"
	"taskcenter/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if cfg.Paths.LogDir != "" {
				logging.PruneLogDir(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logging.LogFileName)
			}

			for _, result := range preflight.Failed(preflight.RunAll(cmd.Context(), cfg)) {
				logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", result.Name),
					logging.String(logging.FieldErrorHint, result.Detail),
					logging.String(logging.FieldImpact, "related endpoints may fail"),
				)
			}
			for _, dep := range preflight.CheckSystemDeps(cfg) {
				if dep.Available {
					continue
				}
				logging.WarnWithContext(logger, "media dependency missing", "dependency_missing",
					logging.String("dependency", dep.Name),
					logging.String("command", dep.Command),
					logging.String(logging.FieldErrorHint, dep.Detail),
					logging.String(logging.FieldImpact, "uploads that need conversion will be rejected"),
				)
			}

			parts, err := buildComponents(cfg, logger)
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				Addr:          cfg.Addr(),
				StaticDir:     cfg.Paths.StaticDir,
				MaxBodyBytes:  cfg.MaxBodyBytes(),
				KeyConfigured: cfg.HasAPIKey(),
				Store:         parts.store,
				Assistant:     parts.assistant,
				Transcriber:   parts.pipeline,
				Logger:        logger,
			})
			addr, err := srv.Listen()
			if err != nil {
				return err
			}

			if !quiet {
				printBanner(cmd.OutOrStdout(), bannerInfo{
					URL:       serverURL(addr),
					DataDir:   cfg.Paths.DataDir,
					StaticDir: cfg.Paths.StaticDir,
					EnvFile:   ctx.envFile,
					KeyHint:   cfg.APIKeyHint(),
					Colorize:  shouldColorize(cmd.OutOrStdout()),
				})
			}
			logger.Info("taskcenter ready",
				logging.String(logging.FieldEventType, "startup_complete"),
				logging.String("addr", addr.String()),
				logging.String("data_dir", cfg.Paths.DataDir),
				logging.Bool("api_key_configured", cfg.HasAPIKey()),
			)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Serve(runCtx); err != nil {
				return err
			}
			logger.Info("server stopped", logging.String(logging.FieldEventType, "server_stopped"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip the startup banner")
	return cmd
}

// serverURL renders a browsable URL; wildcard binds are shown as localhost.
func serverURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String()
	}
	host := "localhost"
	if tcp.IP != nil && !tcp.IP.IsUnspecified() {
		host = tcp.IP.String()
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, fmt.Sprint(tcp.Port)))
}
