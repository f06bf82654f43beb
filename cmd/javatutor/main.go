package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agusespa/javatutor/internal/agent"
	"github.com/agusespa/javatutor/internal/logging"
	"github.com/agusespa/javatutor/internal/render"
	"github.com/agusespa/javatutor/pkg/config"
)

// tuiLogFile receives the log in verbose tui sessions, which own the screen.
const tuiLogFile = "javatutor.log"

var (
	configFile string
	verbose    bool
	colorFlag  string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "javatutor",
	Short: "Explain the errors in a Java exercise",
	Long: `javatutor sends a Java (or JavaWeb) submission to a language model,
classifies the diagnosed errors into common beginner mistakes and explains
each one with a short lesson.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, err := render.ParseColorMode(colorFlag)
		if err != nil {
			return err
		}
		render.ApplyColorMode(mode, os.Stderr)

		switch {
		case cmd.Name() == "tui" && !verbose:
			logger = zap.NewNop()
		case cmd.Name() == "tui":
			logger, err = logging.New(true, tuiLogFile)
		default:
			logger, err = logging.New(verbose, "")
		}
		if err != nil {
			return err
		}

		cfg, err = loadConfig(configFile)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a .json or .toml configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "colorize output (auto|on|off)")

	rootCmd.AddCommand(checkCmd, tuiCmd, annotateCmd, classifyCmd, categoriesCmd, versionCmd)
}

func loadConfig(path string) (*config.Config, error) {
	c := config.Defaults()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
		c = loaded
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		render.NewStatus(os.Stderr).Error("%s", errorMessage(err))
		stop()
		os.Exit(1)
	}
}

func errorMessage(err error) string {
	if errors.Is(err, config.ErrMissingCredential) {
		return "未找到 API 密钥：" + err.Error()
	}
	return agent.ErrorMessage(err)
}
