package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/exec"

	"genomics-annotation-service/internal/config"
	awsinfra "genomics-annotation-service/internal/infra/aws"
	pg "genomics-annotation-service/internal/infra/db/postgres"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/usecase"
)

// Wrapper around the annotation engine. The ingest worker starts one of
// these per job and moves on; the wrapper runs the engine to completion,
// then uploads the artifacts and records COMPLETED itself.
//
// Usage: annotate [-config config.yaml] <input-path> <job-id> <user-id>
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()
	if flag.NArg() != 3 {
		log.Fatalf("usage: annotate [-config path] <input-path> <job-id> <user-id>")
	}
	inputPath, jobID, userID := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	ctx := context.Background()

	if err := runEngine(ctx, cfg.Engine.Command, inputPath); err != nil {
		logger.Fatal().Err(err).Str("job_id", jobID).Msg("annotation engine failed")
	}

	// ---- Wiring for the completion report ----
	clients, err := awsinfra.NewClients(ctx, cfg.AWS.Region)
	if err != nil {
		log.Fatalf("aws: %v", err)
	}
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	jobRepo := awsinfra.NewDynamoJobRepo(clients.DynamoDB, cfg.Table.Name, cfg.Table.UserIndex)
	profileRepo := pg.NewPostgresProfileRepo(pool)
	hot := awsinfra.NewS3Store(clients.S3)
	resultsBus := awsinfra.NewSNSBus(clients.SNS, cfg.Topics.JobResultsARN)

	completionUC := usecase.NewCompletionUseCase(
		jobRepo, profileRepo, hot, resultsBus,
		cfg.Storage.ResultsBucket, cfg.Storage.ResultsPrefix,
		logger,
	)
	if err := completionUC.Report(ctx, jobID, userID, inputPath); err != nil {
		logger.Fatal().Err(err).Str("job_id", jobID).Msg("completion report failed")
	}
}

// runEngine runs the annotator on the input file and captures its stdout as
// the job's count log, next to the input.
func runEngine(ctx context.Context, command, inputPath string) error {
	logFile, err := os.Create(inputPath + ".count.log")
	if err != nil {
		return err
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, command, inputPath)
	cmd.Stdout = logFile
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
