package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/Jhananishri-B/Learnquest-certificate/pkg/config"
	"github.com/Jhananishri-B/Learnquest-certificate/pkg/data"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const (
	dirMode = 0700
)

var (
	name    = "proctor"
	version = "v0.0.1-default"
	commit  = ""

	cfg *config.Config

	dbFilePath = ""
	debug      = false

	debugFlag = &cli.BoolFlag{
		Name:        "debug",
		Usage:       "Prints verbose logs (optional, default: false)",
		Destination: &debug,
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:        "db",
		Usage:       fmt.Sprintf("Path to the Sqlite database file (optional, defaults to $HOME/.%s/%s)", name, data.DataFileName),
		Destination: &dbFilePath,
	}

	configDirFlag = &cli.StringFlag{
		Name:  "config",
		Usage: fmt.Sprintf("Path to the config directory (optional, defaults to $HOME/.%s)", name),
	}
)

func main() {
	initLogging()

	app := &cli.App{
		Name:     name,
		Version:  fmt.Sprintf("%s - (commit: %s)", version, commit),
		Compiled: time.Now(),
		Usage:    "LearnQuest proctoring and certificate service",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
			configDirFlag,
		},
		Before: beforeApp,
		Commands: []*cli.Command{
			serveCmd,
			resultsCmd,
			violationsCmd,
			certificateCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fatalErr(err)
	}
}

func beforeApp(c *cli.Context) error {
	if debug {
		log.SetLevel(log.DebugLevel)
	}

	confDir := c.String(configDirFlag.Name)
	if confDir == "" {
		confDir = getHomeDir()
	}

	var err error
	cfg, err = config.ReadOrCreate(confDir)
	if err != nil {
		return err
	}

	if dbFilePath == "" {
		dbFilePath = cfg.DBPath
	}
	if dbFilePath == "" {
		dbFilePath = path.Join(confDir, data.DataFileName)
	}

	return data.Init(dbFilePath)
}

func fatalErr(err error) {
	if err != nil {
		log.Fatalf("fatal error: %v", err)
		os.Exit(1)
	}
}

func getDBOrFail() *sql.DB {
	db, err := data.GetDB(dbFilePath)
	if err != nil {
		log.Fatalf("fatal error creating DB: %v", err)
		os.Exit(1)
	}
	return db
}

func initLogging() {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		ForceColors:            true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Debugf("error getting home dir, using current dir instead: %v", err)
		return "."
	}
	log.Debugf("home dir: %s", home)

	dirName := "." + name
	dirPath := filepath.Join(home, dirName)
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		log.Debugf("creating dir: %s", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			log.Debugf("error creating dir: %s - %v", dirPath, err)
			return home
		}
	}
	return dirPath
}
