// Package app provides the main application structure and coordination
// for tilestorm. It wires configuration, the map document and the Lua
// console together and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/config/watcher"
	"github.com/dshills/tilestorm/internal/editor/document"
	"github.com/dshills/tilestorm/internal/script"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	// Empty means the default user configuration path.
	ConfigPath string

	// MapPath is a map file to open. Empty starts with a new map.
	MapPath string

	// LogLevel overrides logging.level from the configuration.
	LogLevel string

	// Scripts are Lua files to run in order. Without scripts the
	// application runs an interactive console.
	Scripts []string

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Application is the central coordinator for tilestorm components.
type Application struct {
	mu sync.RWMutex

	opts       Options
	configPath string
	cfg        config.Config

	logger  *Logger
	doc     *document.Document
	lua     *script.State
	watcher *watcher.Watcher

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	app.configPath = app.opts.ConfigPath
	if app.configPath == "" {
		app.configPath = config.DefaultPath()
	}
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = *cfg

	// 2. Logger
	levelName := cfg.Logging.Level
	if app.opts.LogLevel != "" {
		levelName = app.opts.LogLevel
	}
	level, err := ParseLogLevel(levelName)
	if err != nil {
		return &InitError{Component: "logger", Err: err}
	}
	logCfg := DefaultLoggerConfig()
	logCfg.Level = level
	logCfg.Output = app.opts.Stderr
	app.logger = NewLogger(logCfg)

	// 3. Document
	if err := app.openDocument(); err != nil {
		return &InitError{Component: "document", Err: err}
	}

	// 4. Lua console
	app.lua, err = script.NewState(
		[]script.Module{script.NewMapModule(app.doc)},
		script.WithTimeout(cfg.Script.TimeoutDuration()),
		script.WithOutput(app.opts.Stdout),
	)
	if err != nil {
		return &InitError{Component: "script", Err: err}
	}

	// 5. Config watcher. Live reload is optional.
	if err := app.startWatcher(); err != nil {
		app.logger.WithComponent("config").Warn("live reload disabled: %v", err)
	}

	return nil
}

func (app *Application) openDocument() error {
	docLog := app.logger.WithComponent("document")
	opts := []document.Option{
		document.WithCapacity(app.cfg.History.Capacity),
		document.WithLogger(docLog),
	}

	if app.opts.MapPath == "" {
		doc, err := document.New(app.cfg.Map.Rows, app.cfg.Map.Columns,
			append(opts, document.WithTileSize(app.cfg.Map.TileWidth, app.cfg.Map.TileHeight))...)
		if err != nil {
			return err
		}
		app.doc = doc
		docLog.Debug("new %dx%d map", app.cfg.Map.Rows, app.cfg.Map.Columns)
		return nil
	}

	doc, err := document.Open(app.opts.MapPath, opts...)
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Join(ErrNoMap, err)
	}
	if err != nil {
		return err
	}
	app.doc = doc
	return nil
}

func (app *Application) startWatcher() error {
	log := app.logger.WithComponent("config")

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Warn("watch error: %v", err)
	}))
	if err != nil {
		return err
	}
	if err := w.Watch(app.configPath); err != nil {
		w.Close()
		return err
	}
	w.OnChange(app.handleConfigChange)

	app.watcher = w
	log.Debug("watching %s", app.configPath)
	return nil
}

// handleConfigChange reloads the configuration after the file changed.
// An invalid file keeps the previous settings.
func (app *Application) handleConfigChange(ev watcher.Event) {
	log := app.logger.WithComponent("config")

	cfg, err := config.Load(app.configPath)
	if err != nil {
		log.Warn("reload of %s failed, keeping previous settings: %v", ev.Path, err)
		return
	}
	app.applyConfig(*cfg)
	log.Info("reloaded %s", ev.Path)
}

// applyConfig makes the live-reloadable settings take effect.
// Map defaults and the script timeout only apply at startup.
func (app *Application) applyConfig(cfg config.Config) {
	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	if app.opts.LogLevel == "" {
		if level, err := ParseLogLevel(cfg.Logging.Level); err == nil {
			app.logger.SetLevel(level)
		}
	}

	app.doc.SetCapacity(cfg.History.Capacity)
}

// Run executes the script files, or the interactive console when there are
// none. It returns when the work is done or ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	defer app.warnUnsaved()

	if len(app.opts.Scripts) == 0 {
		console := script.NewConsole(app.lua, app.opts.Stdin, app.opts.Stdout)
		err := console.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	log := app.logger.WithComponent("script")
	for _, path := range app.opts.Scripts {
		log.Debug("running %s", path)
		if err := app.lua.DoFile(ctx, path); err != nil {
			return &ScriptError{Path: path, Err: err}
		}
	}
	return nil
}

func (app *Application) warnUnsaved() {
	if app.doc.IsClean() || !app.doc.CanUndo() && app.doc.Path() == "" {
		return
	}
	app.logger.WithComponent("document").Warn("map has unsaved changes")
}

// Shutdown releases all resources. It is safe to call more than once.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		var errs []error
		if app.watcher != nil {
			errs = append(errs, app.watcher.Close())
		}
		if app.lua != nil {
			errs = append(errs, app.lua.Close())
		}
		app.shutdownErr = errors.Join(errs...)
	})
	return app.shutdownErr
}

// Config returns the current configuration.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Document returns the open map document.
func (app *Application) Document() *document.Document {
	return app.doc
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}
