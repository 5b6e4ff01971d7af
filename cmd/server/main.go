package main

import (
	"net/http"
	"os"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"tinker-realm/editor/config"
	"tinker-realm/editor/handlers"
	"tinker-realm/editor/logging"
	"tinker-realm/editor/persistence"
	"tinker-realm/editor/services"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log, logCloser, err := logging.New(logging.Options{
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    os.Stderr,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up logging")
	}
	defer logCloser.Close()

	// Initialize storage
	db, err := persistence.Open(cfg.StorageOptions())
	if err != nil {
		log.WithError(err).WithField("backend", cfg.DBType).Fatal("Failed to initialize persistence")
	}
	defer db.Close()
	log.WithField("backend", cfg.DBType).Info("Persistence initialized successfully")

	catalog, err := services.NewAssetCatalog(cfg.AssetDir, log)
	if err != nil {
		log.WithError(err).WithField("dir", cfg.AssetDir).Fatal("Failed to load asset catalog")
	}

	session, err := services.NewEditorSession(db, catalog, log, cfg.AreaWidth, cfg.AreaHeight)
	if err != nil {
		log.WithError(err).Fatal("Failed to start editor session")
	}
	clientManager := handlers.NewClientManager(session, log)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			// An empty allow-list accepts any origin.
			return len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, r.Header.Get("Origin"))
		},
	}

	// Set up HTTP routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("Failed to upgrade connection")
			return
		}

		handlers.HandleClientConnection(conn, clientManager, log)
	})

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
