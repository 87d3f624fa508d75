package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/s3"

	"example.com/knoxify/internal/cloud"
	"example.com/knoxify/internal/config"
	"example.com/knoxify/internal/convert"
	"example.com/knoxify/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateLambda(); err != nil {
		log.Fatalf("config: %v", err)
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	}))

	handler := convert.New(
		cloud.NewS3Store(s3.New(sess)),
		cloud.NewPollyEngine(polly.New(sess)),
		cfg.DestinationBucket,
		logging.New(cfg.LogLevel),
	)

	lambda.Start(handler.HandleEvent)
}
