// Package servecmder provides the serve command for running the local stub
// runtime.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spoolhq/spool/pkg/config"
	"github.com/spoolhq/spool/pkg/logger"
	"github.com/spoolhq/spool/pkg/stubruntime"
)

type serveCommander struct {
	listen     string
	scriptPath string
	debug      bool

	logger *zap.Logger
}

const serveLongDesc string = `Run a local stub agent runtime.

The stub speaks the same wire contract as a real runtime: invocations
POST to /runtimes/{arn}/invocations with the session header, and the
response streams scripted events as SSE data frames terminated by [DONE].
Append ?mode=raw to exercise the non-SSE fallback path.

A small MCP server with echo and current_time tools is mounted at /mcp,
so "spool tools call" works offline too.

The replayed events come from a JSON script file, or a built-in default
covering every event shape when no script is given.

Examples:
  spool serve
  spool serve --listen :9090
  spool serve --script testdata/session.json`

const serveShortDesc string = "Run a local stub agent runtime"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("listen") {
				cmder.listen = cfg.Serve.Listen
			}
			if !cmd.Flags().Changed("script") {
				cmder.scriptPath = cfg.Serve.Script
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagScript, &cmder.scriptPath)

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	var script *stubruntime.Script
	if c.scriptPath != "" {
		loaded, err := stubruntime.LoadScript(c.scriptPath)
		if err != nil {
			return fmt.Errorf("loading script: %w", err)
		}
		script = loaded
	}

	server := stubruntime.NewServer(stubruntime.Config{
		ListenAddr: c.listen,
		Script:     script,
		Logger:     c.logger,
	})

	// Shut down cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case sig := <-sigCh:
		c.logger.Info("shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	case err := <-errCh:
		return err
	}
}
