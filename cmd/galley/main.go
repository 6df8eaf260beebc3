// Package main is the entry point for the galley sort editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/galley/internal/app"
	"github.com/dshills/galley/internal/config"
	"github.com/dshills/galley/internal/config/watcher"
	"github.com/dshills/galley/internal/font"
	"github.com/dshills/galley/internal/glyph"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type flags struct {
	configPath string
	keymapPath string
	fontPath   string
	logLevel   string
	logFile    string
	watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	settings, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	keymap, err := config.LoadKeymap(f.keymapPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading keymap: %v\n", err)
		return 1
	}

	// Flags override the file.
	if f.logLevel != "" {
		settings.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		settings.Log.File = f.logFile
	}
	if f.fontPath != "" {
		settings.Font.Path = f.fontPath
	}

	logger, closeLog, err := newLogger(settings.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening log: %v\n", err)
		return 1
	}
	defer closeLog()

	metrics, err := loadFont(settings.Font.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading font: %v\n", err)
		return 1
	}
	resolver, closeResolver, err := loadResolver(settings.Font.ResolverScript)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading resolver script: %v\n", err)
		return 1
	}
	defer closeResolver()

	application, err := app.New(app.Options{
		Settings: settings,
		Keymap:   keymap,
		Metrics:  metrics,
		Resolver: resolver,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if f.watch {
		w, err := startConfigWatcher(f, application, logger)
		if err != nil {
			logger.Warn("config watching disabled", "err", err)
		} else {
			defer w.Close()
		}
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	logger.Info("galley starting", "version", version)
	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool

	flag.StringVar(&f.configPath, "config", defaultConfigPath("galley.toml"), "Path to configuration file")
	flag.StringVar(&f.configPath, "c", f.configPath, "Path to configuration file (shorthand)")
	flag.StringVar(&f.keymapPath, "keymap", defaultConfigPath("keymap.yaml"), "Path to keymap file")
	flag.StringVar(&f.fontPath, "font", "", "Path to a TrueType font (default: embedded face)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&f.logFile, "log-file", "", "Log output file (default: discard)")
	flag.BoolVar(&f.watch, "watch", true, "Reload configuration on file change")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Galley - terminal sort composition editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: galley [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("galley %s (%s)\n", version, commit)
		os.Exit(0)
	}
	return f
}

// defaultConfigPath resolves a file under the user config directory.
func defaultConfigPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return dir + "/galley/" + name
}

// newLogger builds the structured logger. The terminal owns stdout
// and stderr while the UI runs, so output goes to a file or nowhere.
func newLogger(cfg config.LogSettings) (*slog.Logger, func(), error) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	out, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(io.Writer(out), &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = out.Close() }, nil
}

func loadFont(path string) (font.Provider, error) {
	if path == "" {
		return font.Regular(), nil
	}
	return font.LoadFace(path)
}

func loadResolver(scriptPath string) (glyph.Resolver, func(), error) {
	if scriptPath == "" {
		return glyph.Standard{}, func() {}, nil
	}
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, nil, err
	}
	lr, err := glyph.NewLuaResolver(string(script))
	if err != nil {
		return nil, nil, err
	}
	return lr, lr.Close, nil
}

// startConfigWatcher reloads settings and keymap when either file
// changes on disk.
func startConfigWatcher(f flags, application *app.App, logger *slog.Logger) (*watcher.Watcher, error) {
	w, err := watcher.New(func(path string) {
		settings, err := config.Load(f.configPath)
		if err != nil {
			logger.Warn("config reload failed", "path", path, "err", err)
			return
		}
		keymap, err := config.LoadKeymap(f.keymapPath)
		if err != nil {
			logger.Warn("keymap reload failed", "path", path, "err", err)
			return
		}
		if err := application.Reload(settings, keymap); err != nil {
			logger.Warn("applying reloaded config failed", "err", err)
		}
	})
	if err != nil {
		return nil, err
	}
	for _, path := range []string{f.configPath, f.keymapPath} {
		if err := w.Watch(path); err != nil {
			logger.Debug("not watching", "path", path, "err", err)
		}
	}
	return w, nil
}
