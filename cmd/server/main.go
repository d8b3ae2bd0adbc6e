package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"saas-agent/config"
	"saas-agent/internal/handler"
	"saas-agent/internal/logger"
	"saas-agent/internal/mcpserver"
	"saas-agent/internal/model"
)

const serviceName = "saas-agent"

var configPath string

func main() {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Natural-language agent over Google, Microsoft, Shopify and chat platforms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// 为空时按 APP_ENV 选择 config/<env>.yaml
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	root.AddCommand(newServeCmd(), newAskCmd(), newMCPCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 加载配置并装配依赖；日志写到 w
func bootstrap(ctx context.Context, w io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithOptions(serviceName, cfg.Log.Level, cfg.Log.Format, w)
	return newApp(ctx, cfg, log)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, os.Stdout)
			if err != nil {
				return err
			}
			defer a.Close()

			mode := a.cfg.Server.Mode
			if env := os.Getenv("GIN_MODE"); env != "" {
				mode = env
			}
			gin.SetMode(mode)

			a.startBackground()
			return serve(ctx, a, handler.Router(a.agent, a.log))
		},
	}
}

func serve(ctx context.Context, a *app, h http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("server starting")
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

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newAskCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Run a single request and print the JSON response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.agent.Query(ctx, model.QueryRequest{
				Query:     strings.Join(args, " "),
				SessionID: session,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "", "session id (defaults to agent.default_session)")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the agent as an MCP tool over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout 留给协议，日志只能写 stderr
			a, err := bootstrap(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			a.startBackground()
			return mcpserver.Serve(a.agent, a.log)
		},
	}
}
