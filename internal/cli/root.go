// Package cli is the studyaid command line client: it browses courses through
// the proxy server, generates study aids into a local content store and renders
// them.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/yungbote/studyaid-backend/internal/contentstore"
	"github.com/yungbote/studyaid-backend/internal/platform/logger"
	"github.com/yungbote/studyaid-backend/internal/studyaid/proxyclient"
)

type rootOptions struct {
	configPath string
	server     string
	apiKey     string
	backend    string
	verbose    bool
}

// app is built once per invocation in PersistentPreRunE.
type app struct {
	cfg        Config
	log        *logger.Logger
	proxy      *proxyclient.Client
	store      *contentstore.Store
	closeStore func()
}

// Deps lets tests point the CLI at an httptest server.
type Deps struct {
	HTTPClient *http.Client
	Out        io.Writer
	Err        io.Writer
}

func NewRootCommand(deps Deps) *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:           "studyaid",
		Short:         "Generate study aids from Canvas course modules",
		Long:          "studyaid lists your Canvas courses through the study-aid proxy and turns module pages into summaries, flashcards and quizzes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), opts, deps)
		},
	}
	if deps.Out != nil {
		root.SetOut(deps.Out)
	}
	if deps.Err != nil {
		root.SetErr(deps.Err)
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", DefaultConfigPath(), "config file")
	pf.StringVar(&opts.server, "server", "", "proxy server URL (overrides config)")
	pf.StringVar(&opts.apiKey, "api-key", "", "Canvas API token (overrides config)")
	pf.StringVar(&opts.backend, "store", "", "content store backend: memory, file, redis, sqlite, postgres")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCoursesCommand(a),
		newModulesCommand(a),
		newGenerateCommand(a),
		newShowCommand(a),
		newDashboardCommand(a),
	)
	// Post-run hooks are skipped when RunE fails, so release the store here.
	for _, c := range root.Commands() {
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return run(cmd, args)
		}
	}
	return root
}

// Execute runs the CLI against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(Deps{}).ExecuteContext(ctx)
}

func (a *app) init(ctx context.Context, opts *rootOptions, deps Deps) error {
	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.server != "" {
		cfg.Server = opts.server
	}
	if opts.apiKey != "" {
		cfg.APIKey = opts.apiKey
	}
	if opts.backend != "" {
		cfg.Store.Backend = opts.backend
	}
	mode := cfg.LogMode
	if opts.verbose {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	proxy := proxyclient.New(log, proxyclient.Config{
		ServerURL: cfg.Server,
		APIKey:    cfg.APIKey,
		Timeout:   cfg.Timeout,
	}, deps.HTTPClient)

	p, closeP, err := OpenPersister(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	store, err := contentstore.New(ctx, proxy, p, log)
	if err != nil {
		closeP()
		return err
	}

	a.cfg = cfg
	a.log = log
	a.proxy = proxy
	a.store = store
	a.closeStore = closeP
	return nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if a.closeStore != nil {
		a.closeStore()
		a.closeStore = nil
	}
	if a.log != nil {
		a.log.Sync()
	}
}

func (a *app) requireAPIKey() error {
	if a.cfg.APIKey == "" {
		return fmt.Errorf("a Canvas API token is required: set api_key in the config, STUDYAID_API_KEY, or --api-key")
	}
	return nil
}
