package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/studybuddy/internal/client"
	"github.com/verte-zerg/studybuddy/internal/config"
	"github.com/verte-zerg/studybuddy/internal/logging"
	"github.com/verte-zerg/studybuddy/internal/theme"
)

// settings bundles the file config, environment overlay and logger shared
// by every command.
type settings struct {
	file   config.FileConfig
	env    config.Env
	logger *slog.Logger
	closer io.Closer
}

func loadSettings() (*settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.LoadEnv(".env", config.DefaultEnvPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	levelName := ""
	if fileCfg.UI.LogLevel != nil {
		levelName = *fileCfg.UI.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log-level: %w", err)
	}

	s := &settings{file: fileCfg, env: env}
	logger, closer, err := logging.Open(config.DefaultLogPath(), level)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		s.logger = logging.Discard()
		return s, nil
	}
	s.logger, s.closer = logger, closer
	return s, nil
}

func (s *settings) close() {
	if s.closer == nil {
		return
	}
	if err := s.closer.Close(); err != nil {
		logErrf("failed to close log: %v\n", err)
	}
}

// resolveServer applies flag > env > file precedence to the server URL.
func resolveServer(cmd *cobra.Command, s *settings) string {
	applyStringConfig(cmd, "server", &studyServer, config.First(s.env.Server, s.file.Study.Server))
	return studyServer
}

func resolveTimeout(fileCfg config.FileConfig) (time.Duration, error) {
	timeout, err := config.ParseDuration("timeout", fileCfg.Server.Timeout)
	if err != nil {
		return 0, err
	}
	if timeout == nil {
		return client.DefaultTimeout, nil
	}
	return *timeout, nil
}

// resolveTheme applies flag > env > persisted state > file precedence. An
// unreadable state file is logged and skipped.
func resolveTheme(cmd *cobra.Command, s *settings, statePath string) (theme.Theme, error) {
	var persisted *string
	state, err := config.LoadState(statePath)
	if err != nil {
		s.logger.Warn("ignoring state file", "path", statePath, "err", err)
	} else if state.Theme != "" {
		persisted = &state.Theme
	}
	applyStringConfig(cmd, "theme", &studyTheme, config.First(s.env.Theme, persisted, s.file.UI.Theme))
	th, err := theme.Parse(studyTheme)
	if err != nil {
		return theme.Theme{}, fmt.Errorf("invalid --theme: %w", err)
	}
	return th, nil
}

func newClient(cmd *cobra.Command, s *settings) (*client.Client, error) {
	timeout, err := resolveTimeout(s.file)
	if err != nil {
		return nil, err
	}
	server := resolveServer(cmd, s)
	if server == "" {
		return nil, fmt.Errorf("--server must not be empty")
	}
	token := ""
	if s.env.Token != nil {
		token = *s.env.Token
	}
	return client.New(server, token, timeout), nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studybuddy configuration
# Uncomment a value to enable it. CLI flags and %s/%s/%s override config values.

[study]
# server = %q   # Study server base URL
# deck = 1                           # Deck id to study (default: all cards)
# quiz = false                       # Start in quiz mode (shuffled)
# seed = 0                           # Shuffle seed (0 = random)
# auto-advance = "500ms"             # Delay before moving on after a judgement
# focus-weak = false                 # Study only cards missed recently
# weak-top = %d                      # Number of weak cards to focus on
# weak-window = %d                   # Number of recent sessions to compute weak cards

[ui]
# theme = "light"                    # light or dark
# log-level = "info"                 # debug, info, warn or error

[server]
# timeout = "10s"                    # Request timeout
`,
		config.EnvServer,
		config.EnvToken,
		config.EnvTheme,
		defaultServer,
		defaultWeakTop,
		defaultWeakWindow,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
