package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/content"
	"github.com/jonathan/portfolio-site/internal/db"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort       int
	serveContent    string
	serveResumeFile string
	serveSiteURL    string
	serveWatch      bool
	serveDatabase   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	Long: `Start an HTTP server that renders the portfolio page, serves the resume and relays
contact submissions. With DATABASE_URL set, submissions are recorded and the admin API is
available once ADMIN_PASSWORD_HASH and JWT_SECRET are configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveContent, "content", "", "Path to portfolio content JSON (default: built-in)")
	serveCmd.Flags().StringVar(&serveResumeFile, "resume", "", "Path to the resume PDF (default resume.pdf)")
	serveCmd.Flags().StringVar(&serveSiteURL, "site-url", "", "Public URL of the site, used for sharing")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload content when the file changes")
	serveCmd.Flags().StringVar(&serveDatabase, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, config.Config{
		Port:        servePort,
		Content:     serveContent,
		ResumeFile:  serveResumeFile,
		SiteURL:     serveSiteURL,
		Watch:       serveWatch,
		DatabaseURL: serveDatabase,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	portfolio, err := loadPortfolio(cfg.Content)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintPortfolio(portfolio)
	}
	store := content.NewStore(portfolio, cfg.Content)

	relay, err := newRelay(cfg)
	if err != nil {
		return err
	}

	srvCfg := server.Config{
		Port:       cfg.Port,
		SiteURL:    cfg.SiteURL,
		ResumeFile: cfg.ResumeFile,
		Content:    store,
	}

	var recorder contact.Recorder
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		recorder = database
		srvCfg.Messages = database

		jwtCfg, passwords, err := adminConfig()
		if err != nil {
			return err
		}
		srvCfg.JWT = jwtCfg
		srvCfg.Passwords = passwords
	}
	srvCfg.Contact = contact.NewService(relay, recorder)

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if srvCfg.Messages != nil && !srv.AdminEnabled() {
		log.Printf("[admin] Admin API disabled: set ADMIN_PASSWORD_HASH and JWT_SECRET to enable it")
	}

	var watcher *content.Watcher
	if cfg.Watch {
		watcher, err = content.NewWatcher(store, content.DefaultDebounce, nil)
		if err != nil {
			return fmt.Errorf("failed to watch content: %w", err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gCtx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gCtx)
		})
	}

	return g.Wait()
}

// adminConfig loads the admin credential settings. Without ADMIN_PASSWORD_HASH it returns
// nils and the admin API stays disabled.
func adminConfig() (*config.JWTConfig, *config.PasswordConfig, error) {
	if os.Getenv("ADMIN_PASSWORD_HASH") == "" {
		return nil, nil, nil
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid password config: %w", err)
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid JWT config: %w", err)
	}
	return jwtCfg, passwords, nil
}
