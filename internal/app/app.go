package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/compose"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/config"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/imgbb"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/jar"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/prefs"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/session"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/ui"
)

// Options configure the postboard application.
type Options struct {
	ConfigPath string
	EnvPath    string // empty reads ./.env when present
	PrefsPath  string // empty uses ~/.config/postboard/prefs.toml
	StartPath  string // empty opens /
}

// Run boots the postboard TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	cookies, err := jar.Open(cfg.CookieDB)
	if err != nil {
		return fmt.Errorf("open cookie jar: %w", err)
	}
	defer func() { _ = cookies.Close() }()

	if n, err := cookies.PurgeExpired(ctx); err != nil {
		log.Printf("purge expired cookies: %v", err)
	} else if n > 0 {
		log.Printf("purged %d expired cookies", n)
	}

	sess, err := session.Load(ctx, session.NewStore(cookies, nil))
	if err != nil {
		return err
	}

	client, err := api.NewClient(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	submitter := &compose.Submitter{API: client}
	if cfg.UploadsEnabled() {
		uploader, err := imgbb.NewClient(cfg.ImageHostURL, cfg.ImageAPIKey)
		if err != nil {
			return fmt.Errorf("init image client: %w", err)
		}
		submitter.Uploader = uploader
	} else {
		log.Printf("image uploads disabled: %s is not set", config.EnvImageAPIKey)
	}

	log.Printf("postboard starting: api=%s authenticated=%v", client.BaseURL(), sess.Snapshot().Authenticated)

	program := ui.NewProgram(ui.Options{
		Context:   ctx,
		API:       client,
		Session:   sess,
		Submitter: submitter,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		StartPath: opts.StartPath,
	})

	StartWatcher(ctx, sess, cfg.WatchInterval, func(present bool) {
		program.Send(ui.SessionChangedMsg{Present: present})
	})

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

// openLog points the standard logger at path so output stays off the
// terminal the TUI is drawing on.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return tea.LogToFile(path, "postboard")
}
