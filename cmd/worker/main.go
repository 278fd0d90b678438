package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/actorlink/internal/db/migrations"
	"github.com/OFFIS-RIT/actorlink/internal/queue"
	"github.com/OFFIS-RIT/actorlink/internal/util"
	"github.com/OFFIS-RIT/actorlink/internal/worker"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
	"github.com/OFFIS-RIT/actorlink/pkg/logger/console"
	"github.com/OFFIS-RIT/actorlink/pkg/store"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug,
		JSON:   util.GetEnvBool("LOG_JSON", false),
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	databaseURL := util.GetEnvString("DATABASE_URL", "sqlite://actorlink.db")
	if err := store.Migrate(databaseURL, migrations.Up); err != nil {
		logger.Fatal("Failed to migrate database", "err", err)
	}
	st, err := store.Open(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to open store", "err", err)
	}
	defer st.Close()

	pipeline, err := worker.NewPipeline(ctx, worker.EnvFromOS(), st)
	if err != nil {
		logger.Fatal("Unable to build ingest pipeline", "err", err)
	}
	defer pipeline.Close()

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// prefetch=1: one ingest job per worker at a time
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.IngestQueue,
		queue.IngestQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.IngestQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.IngestQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed", "queue", queue.IngestQueue)
					stop()
					return
				}

				startTime := time.Now()
				logger.Info("Received message", "queue", queue.IngestQueue)

				processingErr := queue.ProcessIngestMessage(ctx, pipeline, msg.Body)
				if processingErr != nil {
					logger.Error("Error processing message", "queue", queue.IngestQueue, "err", processingErr)
					queue.HandleProcessingError(ctx, consumerCh, msg, queue.IngestQueue, processingErr)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", queue.IngestQueue)
				}

				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Second))
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}
