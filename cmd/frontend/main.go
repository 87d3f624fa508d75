package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"example.com/knoxify/internal/cloud"
	"example.com/knoxify/internal/config"
	"example.com/knoxify/internal/logging"
	"example.com/knoxify/internal/orchestrator"
	"example.com/knoxify/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateFrontend(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	}))
	store := cloud.NewS3Store(s3.New(sess))

	jobs := registry.New(cfg.JobTTL)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go jobs.Janitor(ctx, time.Minute)

	app := &application{
		orc: orchestrator.New(store, jobs, orchestrator.Buckets{
			Inbound:  cfg.SourceBucket,
			Outbound: cfg.DestinationBucket,
		}, logger),
		log: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/ping", app.PingHandler).Methods("GET")
	r.HandleFunc("/voices", app.VoicesHandler).Methods("GET")
	r.HandleFunc("/upload", app.UploadHandler).Methods("POST")
	r.HandleFunc("/status/{id}", app.StatusHandler).Methods("GET")
	r.HandleFunc("/download/{id}", app.DownloadHandler).Methods("GET")

	logger.Info("frontend starting",
		"port", cfg.Port,
		"source_bucket", cfg.SourceBucket,
		"destination_bucket", cfg.DestinationBucket,
	)

	n := negroni.Classic()
	n.UseHandler(r)
	n.Run(":" + cfg.Port)
}
