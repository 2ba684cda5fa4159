package main

import (
	"fmt"
	"github.com/OpenMobilityTools/bikewatch/app/trip-svc/tripsvc"
	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	logger "log"
	"os"
	"os/signal"
	"syscall"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "TRIP_SVC : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	// load .env into environment when present
	_ = godotenv.Load()

	var cfg struct {
		conf.Version
		Args conf.Args
		NATS struct {
			URL     string `conf:"default:nats://localhost:4222"`
			Subject string `conf:"default:bike-trips"`
		}
		Web struct {
			HttpPort          int `conf:"default:8080"`
			ExpireTripSeconds int `conf:"default:86400"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Serve recently inferred bikeshare trips over http"
	const prefix = "TRIPSVC"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	natsConn, err := nats.Connect(cfg.NATS.URL, nats.Name("trip-svc"))
	if err != nil {
		return fmt.Errorf("connecting to nats at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConn.Close()

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	tripsvc.StartServices(log, cfg.Web.ExpireTripSeconds, cfg.Web.HttpPort, natsConn,
		cfg.NATS.Subject, shutdown)
	return nil
}
