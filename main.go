// File: main.go
package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vtan/mmo/game"
	"github.com/vtan/mmo/server"
	"github.com/vtan/mmo/troupe"
	"github.com/vtan/mmo/utils"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file; defaults apply when empty")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := utils.DefaultConfig()
	if *configPath != "" {
		loaded, err := utils.LoadConfig(*configPath)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to load config")
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("Invalid default config")
	}

	srv, err := game.NewServerContext(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build world")
	}

	ticks, err := game.NewTickSource(cfg.TickInterval())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create tick source")
	}
	ticks.Run()

	engine := troupe.NewEngine()
	root := engine.Spawn(troupe.NewProps(game.NewRootActorProducer(srv, ticks)).
		WithMailbox(game.RoomMailboxSize).
		WithName("root"))

	gameServer := server.New(srv, engine, root)
	http.Handle("/play", gameServer.WebsocketHandler())
	http.HandleFunc("/debug/rooms", gameServer.HandleDebugRooms())
	http.HandleFunc("/debug/room", gameServer.HandleDebugRoom())

	httpServer := &http.Server{Addr: cfg.ListenAddr}
	go func() {
		logrus.WithField("addr", cfg.ListenAddr).Info("Listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Listener failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("Shutting down")
	shutdownTimeout := time.Duration(cfg.ShutdownTimeout * float64(time.Second))
	httpServer.Close()
	ticks.Stop()
	engine.Shutdown(shutdownTimeout)
}
