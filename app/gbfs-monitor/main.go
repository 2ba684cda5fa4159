package main

import (
	"fmt"
	"github.com/OpenMobilityTools/bikewatch/app/gbfs-monitor/monitor"
	"github.com/OpenMobilityTools/bikewatch/foundation/database"
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
	log := logger.New(os.Stdout, "GBFS_MONITOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		NATS struct {
			URL     string `conf:"default:nats://localhost:4222"`
			Subject string `conf:"default:bike-trips"`
			Publish bool   `conf:"default:true"`
		}
		GBFS struct {
			StationInformationUrl string `conf:"default:https://gbfs.nextbike.net/maps/gbfs/v1/nextbike_bn/de/station_information.json"`
			FreeBikeStatusUrl     string `conf:"default:https://gbfs.nextbike.net/maps/gbfs/v1/nextbike_bn/de/free_bike_status.json"`
			MinimumPollSeconds    int    `conf:"default:1"`
		}
		Monitor struct {
			RecordToDatabase bool   `conf:"default:true"`
			TripLogPath      string `conf:"default:trips.json"`
			MetricsAddr      string
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Infer completed bikeshare trips from a GBFS free bike feed"
	const prefix = "MONITOR"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			printUsage(usage)
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

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	// =========================================================================
	// Start Metrics

	metrics := monitor.NewMetrics()
	if len(cfg.Monitor.MetricsAddr) > 0 {
		metricsServer := metrics.Serve(log, cfg.Monitor.MetricsAddr)
		defer func() {
			_ = metricsServer.Close()
		}()
	}

	// =========================================================================
	// Connect NATS

	var natsConn *nats.Conn
	if cfg.NATS.Publish {
		natsConn, err = nats.Connect(cfg.NATS.URL,
			nats.Name("gbfs-monitor"),
			nats.DisconnectErrHandler(func(_ *nats.Conn, _ error) {
				metrics.NatsConnected.Set(0)
				log.Printf("nats disconnected")
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				metrics.NatsConnected.Set(1)
				log.Printf("nats reconnected")
			}),
			nats.ClosedHandler(func(_ *nats.Conn) {
				metrics.NatsConnected.Set(0)
				log.Printf("nats closed")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to nats at %s: %w", cfg.NATS.URL, err)
		}
		metrics.NatsConnected.Set(1)
		defer natsConn.Close()
	}

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return monitor.RunBikeMonitorLoop(log, db, natsConn, monitor.Config{
		StationInformationURL: cfg.GBFS.StationInformationUrl,
		FreeBikeStatusURL:     cfg.GBFS.FreeBikeStatusUrl,
		MinimumPollSeconds:    cfg.GBFS.MinimumPollSeconds,
		RecordToDatabase:      cfg.Monitor.RecordToDatabase,
		PublishOverNats:       cfg.NATS.Publish,
		NatsSubject:           cfg.NATS.Subject,
		TripLogPath:           cfg.Monitor.TripLogPath,
	}, metrics, shutdown)

}

func printUsage(confUsage string) {
	fmt.Println(confUsage)
}
