package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"tinker-realm/editor/config"
	"tinker-realm/editor/logging"
	"tinker-realm/editor/persistence"
	"tinker-realm/editor/services"
	"tinker-realm/editor/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env", ".env", "settings file loaded before the environment")
	areaFile := flag.String("area", "", "area file to open on start")
	gameFile := flag.String("game", "", "game file to open on start")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	// The screen belongs to the editor, so logs only go to the file.
	log, logCloser, err := logging.New(logging.Options{
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	db, err := persistence.Open(cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	catalog, err := services.NewAssetCatalog(cfg.AssetDir, log)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	session, err := services.NewEditorSession(db, catalog, log, cfg.AreaWidth, cfg.AreaHeight)
	if err != nil {
		return err
	}
	if *gameFile != "" {
		if _, err := session.OpenGame(*gameFile); err != nil {
			return err
		}
	}
	if *areaFile != "" {
		if err := session.OpenArea(*areaFile); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	sound := tui.NewSound(log)
	defer sound.Close()

	app := tui.NewApp(screen, session, sound, log)
	if lister, ok := db.(tui.AreaLister); ok {
		app.SetAreaLister(lister)
	}
	log.Info("Editor started")
	return app.Run()
}
