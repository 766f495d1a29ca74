package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"categorization-service/internal/app"
	"categorization-service/internal/bridge"
)

// workerCmd runs the queue bridge consumer loop.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the queue bridge consumer",
	Long: `Starts the consumer that reads transcription messages from the broker,
categorizes and persists them, and republishes enriched messages downstream.
Shutdown waits for the in-flight message before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get application context: %w", err)
		}
		defer appInstance.Close()

		return runWorker(appInstance)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(appInstance *app.App) error {
	if err := appInstance.Config.Validate(); err != nil {
		return err
	}
	if err := appInstance.ConnectBroker(); err != nil {
		return err
	}

	deliveries, err := appInstance.Broker.Consume("categorization-worker")
	if err != nil {
		return err
	}

	b := bridge.New(appInstance.Broker, appInstance.Categorizer, appInstance.Store,
		appInstance.Config.Worker.MaxRetries)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx, deliveries)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	log.Infof("worker consuming from %s (max retries: %d)",
		appInstance.Broker.Topology().ConsumeQueue, appInstance.Config.Worker.MaxRetries)

	select {
	case sig := <-shutdown:
		log.Infof("received %s, shutting down", sig)
		cancel()
		// Run returns only after the in-flight message is settled.
		if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Info("worker shutdown complete")
		return nil
	case err := <-done:
		return err
	}
}
