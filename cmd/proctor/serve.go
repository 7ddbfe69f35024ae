package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/server"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
)

var (
	addressFlag = &cli.StringFlag{
		Name:     "address",
		Usage:    "Address on which the server will listen (optional, defaults to config)",
		Required: false,
	}

	serveCmd = &cli.Command{
		Name:    "serve",
		Aliases: []string{"server"},
		Usage:   "Start the proctoring HTTP server",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			addressFlag,
		},
	}
)

func cmdStartServer(c *cli.Context) error {
	address := c.String(addressFlag.Name)
	if address == "" {
		address = cfg.Address
	}

	db := getDBOrFail()
	defer db.Close()

	srv := server.New(db, cfg.Rules())

	s := &http.Server{
		Addr:           address,
		Handler:        srv.Router(),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("error starting server: %v", err)
		}
	}()

	log.Infof("server started on %s", address)

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Errorf("error shutting down server: %v", err)
	}

	log.Info("server stopped")

	return nil
}
