package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/naveenspark/tally/internal/config"
	"github.com/naveenspark/tally/internal/logger"
	"github.com/naveenspark/tally/internal/storage"
	"github.com/naveenspark/tally/internal/tui"
	"github.com/naveenspark/tally/pkg/client"
	"github.com/naveenspark/tally/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// errNotSignedIn is returned by commands that need a session when none is stored.
var errNotSignedIn = errors.New("not signed in")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errNotSignedIn) || errors.Is(err, client.ErrSessionExpired) {
			printSignInHint(os.Stderr)
		}
		os.Exit(1)
	}
}

// env is what every command runs against: resolved config, logger, the
// session store and an API client reading its token from that store.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *session.Store
	client *client.Client
	closer io.Closer
	out    io.Writer
	errOut io.Writer
}

// setup resolves config and opens storage. nav receives 401 redirects; nil
// leaves them to the caller.
func setup(cmd *cobra.Command, nav client.Navigator) (*env, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogPath())
	if err != nil {
		return nil, err
	}

	persister, closer, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		logger.Sync(log)
		return nil, err
	}

	store := session.New(persister, session.WithLogger(log))
	store.Initialize()

	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(log),
	}
	if nav != nil {
		opts = append(opts, client.WithNavigator(nav))
	}
	if cfg.SendUserID {
		opts = append(opts, client.WithUserScope(store.UserID))
	}

	log.Debug("session ready",
		zap.String("api_url", cfg.APIURL),
		zap.String("storage", cfg.Storage),
		zap.Bool("authenticated", store.IsAuthenticated()))

	return &env{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client.New(cfg.APIURL, store, opts...),
		closer: closer,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}, nil
}

func (e *env) Close() {
	if err := e.closer.Close(); err != nil {
		e.log.Warn("close storage", zap.Error(err))
	}
	logger.Sync(e.log)
}

// expiredNotice is the CLI's Navigator: one line on stderr per rejection.
func expiredNotice(w io.Writer) client.Navigator {
	return client.NavigatorFunc(func() {
		fmt.Fprintln(w, "session expired: sign in again with `tally login`")
	})
}

// withSession runs fn with a signed-in env, failing early when no session is stored.
func withSession(cmd *cobra.Command, fn func(*env) error) error {
	e, err := setup(cmd, expiredNotice(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer e.Close()
	if !e.store.IsAuthenticated() {
		return errNotSignedIn
	}
	return fn(e)
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "Track income and expenses from the terminal",
		Long:          "tally is a client for the expense tracker API. Run it without arguments for the interactive dashboard.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default <data-dir>/config.yaml)")
	flags.String("api-url", config.DefaultAPIURL, "API base URL")
	flags.String("data-dir", config.DefaultDataDir(), "directory for the stored session and logs")
	flags.String("storage", "file", "session storage: file, sqlite or memory")
	flags.StringP("output", "o", "table", "output format: table, json or yaml")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.Duration("timeout", config.DefaultTimeout, "request timeout")

	for key, name := range map[string]string{
		config.KeyAPIURL:       "api-url",
		config.KeyDataDir:      "data-dir",
		config.KeyStorage:      "storage",
		config.KeyOutputFormat: "output",
		config.KeyLogLevel:     "log-level",
		config.KeyTimeout:      "timeout",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	cmd.SetVersionTemplate("tally {{.Version}}\n")

	cmd.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newTxCmd(),
		newSummaryCmd(),
		newDashboardCmd(),
		newCategoriesCmd(),
		newWebCmd(),
		newVersionCmd(),
	)
	return cmd
}

func runTUI(cmd *cobra.Command) error {
	redirect := tui.NewRedirector()
	e, err := setup(cmd, redirect)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(e.client, e.store, tui.WithWebURL(e.cfg.WebURL))
	p := tea.NewProgram(app, tea.WithAltScreen())
	redirect.Attach(p)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "tally "+version)
			return nil
		},
	}
}
