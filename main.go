package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nitro/sidecar-executor/loghooks"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/maluscro/csender/catalog"
	"github.com/maluscro/csender/reporter"
	director "github.com/relistan/go-director"
	"github.com/relistan/rubberneck"
	"github.com/sethvargo/go-limiter/memorystore"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func printUsage() {
	fmt.Printf("csender floods a syslog receiver with synthetic events.\n\n")
	fmt.Printf("usage:\n  csender <hostname> <port> [options]\n\noptions:\n")
	pflag.PrintDefaults()
}

func configure() *Config {
	var config Config

	err := envconfig.Process("csender", &config)
	if err != nil {
		log.Fatal(err.Error())
	}

	pflag.Usage = printUsage
	pflag.IntVarP(&config.EventLength, "length", "l", -1,
		fmt.Sprintf("Total length in bytes of every event [%d-%d]", minEventLength, maxEventLength))
	pflag.BoolVarP(&config.RandomLength, "random", "r", false,
		fmt.Sprintf("Pad each event to a random total length [%d-%d]", randomLengthMin, randomLengthMax))
	pflag.StringVarP(&config.FeedFile, "feed", "f", "",
		"Follow this file and replay its lines as event bodies")
	pflag.StringVarP(&config.CatalogFile, "catalog", "c", "",
		"JSON file of event bodies to use instead of the built-in set")
	pflag.Parse()

	args := pflag.Args()
	if len(args) < 2 {
		printUsage()
		os.Exit(1)
	}
	config.Hostname = args[0]
	config.Service = args[1]

	err = config.Validate()
	if err != nil {
		log.Error(err.Error())
		printUsage()
		os.Exit(1)
	}

	return &config
}

func configureLogging(config *Config) {
	level, err := log.ParseLevel(config.LoggingLevel)
	if err != nil {
		log.Fatalf("Invalid logging level %q: %s", config.LoggingLevel, err)
	}
	log.SetLevel(level)

	// Diagnostics can be mirrored to a syslog endpoint. That is never
	// the flood target: events go over their own connection.
	if config.DiagSyslogAddr != "" {
		hook, err := loghooks.NewUDPHook(config.DiagSyslogAddr)
		if err != nil {
			log.Errorf("Error adding syslog hook: %s", err)
		} else {
			log.AddHook(hook)
		}
	}
}

func main() {
	config := configure()
	configureLogging(config)
	rubberneck.Print(*config)

	cat := catalog.Default()
	if config.CatalogFile != "" {
		var err error
		cat, err = catalog.Load(config.CatalogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
	err := catalogFits(cat)
	if err != nil {
		log.Fatal(err.Error())
	}

	var feed *FileFeed
	if config.FeedFile != "" {
		feed, err = NewFileFeed(config.FeedFile)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	conn, err := Connect(config.Transport, config.Hostname, config.Service)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer conn.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	synth := NewSynthesizer(cat, config.BodyMode(), config.EventLength, feed, rng)

	looper := director.NewFreeLooper(director.FOREVER, make(chan error))

	sender := NewSender(conn, NewClock(), synth, looper)
	sender.ReportInterval = config.ReportInterval
	sender.StopOnSendError = config.StopOnSendError
	sender.SenderID = uuid.New().String()[:8]

	if config.MaxEventsPerSec > 0 {
		store, err := memorystore.New(&memorystore.Config{
			Tokens:   uint64(config.MaxEventsPerSec),
			Interval: time.Second,
		})
		if err != nil {
			log.Fatalf("Unable to create the rate cap: %s", err)
		}
		sender.Limit = store
	}

	if config.ReportURL != "" {
		rptr := reporter.NewThroughputReporter(
			config.ReportURL, sender.SenderID, config.ReportURLInterval,
		)
		rptr.Run()
		sender.Reporter = rptr
	}

	if config.MetricsAddr != "" {
		go serveMetrics(config.MetricsAddr, sender)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("Shutting down on signal")
		if feed != nil {
			feed.Stop()
		}
		looper.Quit()
	}()

	go sender.Run()

	err = looper.Wait()
	if err != nil {
		log.Errorf("The flood stopped: %s", err)
		os.Exit(1)
	}

	final := sender.Snapshot()
	log.Infof("Flood finished: %d events in %ds, %d transmit failures",
		final.EventsSent, final.SecondsElapsed, final.SendErrors)
}
