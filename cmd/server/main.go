package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/careerprep/portal/internal/api"
	"github.com/careerprep/portal/internal/cleanup"
	"github.com/careerprep/portal/internal/database"
	"github.com/careerprep/portal/internal/generator"
	"github.com/careerprep/portal/internal/progress"
	"github.com/careerprep/portal/internal/storage"
)

func main() {
	_ = godotenv.Load()
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("empty DB_URL in environment")
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl == "" {
		log.Fatal("empty RABBITMQ_URL in env")
	}

	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}

	dbqueries := database.New(db)

	r2AccountId := os.Getenv("R2_ACCOUNT_ID")
	if r2AccountId == "" {
		log.Fatal("empty R2_ACCOUNT_ID in environment")
	}
	r2Bucket := os.Getenv("R2_BUCKET")
	if r2Bucket == "" {
		log.Fatal("empty R2_BUCKET in environment")
	}
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	if r2SecretKey == "" {
		log.Fatal("empty R2_SECRET_KEY in environment")
	}
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	if r2AccessKey == "" {
		log.Fatal("empty R2_ACCESS_KEY in environment")
	}
	r2PublicBaseUrl := os.Getenv("R2_PUBLIC_BASE_URL")
	if r2PublicBaseUrl == "" {
		log.Fatal("empty R2_PUBLIC_BASE_URL in environment")
	}
	r2Config := storage.R2Config{
		AccountID:     r2AccountId,
		AccessKey:     r2AccessKey,
		SecretKey:     r2SecretKey,
		Bucket:        r2Bucket,
		PublicBaseURL: r2PublicBaseUrl,
	}
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}
	blobs := storage.New(awsConfig, r2Config)

	googleApiKey := os.Getenv("GOOGLE_API_KEY")
	if googleApiKey == "" {
		log.Fatal("empty GOOGLE_API_KEY in env")
	}
	feedbackGen, err := generator.New(googleApiKey, "interview feedback", generator.FeedbackPrompt())
	if err != nil {
		log.Fatalf("failed to create feedback agent: %v", err)
	}
	reviewGen, err := generator.New(googleApiKey, "resume reviewer", generator.ResumeReviewPrompt())
	if err != nil {
		log.Fatalf("failed to create resume review agent: %v", err)
	}
	letterGen, err := generator.New(googleApiKey, "cover letter writer", generator.CoverLetterPrompt())
	if err != nil {
		log.Fatalf("failed to create cover letter agent: %v", err)
	}

	conn, err := amqp.Dial(rabbitmqUrl)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
	}
	orphanQueue := cleanup.NewPublisher(conn)

	cleanupConfig := cleanup.WorkerConfig{
		RabbitURL: rabbitmqUrl,
		Blobs:     blobs,
	}
	fmt.Println("Starting 3 cleanup workers consumer pool ")
	go cleanupConfig.StartWorkerPool(3)

	coordinator := progress.NewCoordinator(blobs, dbqueries, dbqueries, r2Config.Bucket, orphanQueue)

	server := &api.Server{
		Store:        dbqueries,
		Progress:     coordinator,
		Feedback:     feedbackGen,
		ResumeReview: reviewGen,
		CoverLetter:  letterGen,
	}

	log.Printf("listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, server.Router()))
}
