package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"categorization-service/internal/apihandlers"
)

// runCmd starts the HTTP server and the queue consumer in one process, the
// original single-container deployment shape. The consumer runs on its own
// goroutine so a slow classification never stalls the liveness endpoint.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the HTTP API and the queue consumer together",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		handler := apihandlers.NewAPIHandler(appInstance.Categorizer)
		router := apihandlers.NewRouter(handler)

		listenAddr := fmt.Sprintf("%s:%s", appInstance.Config.Server.Addr, appInstance.Config.Server.Port)
		httpErr := make(chan error, 1)
		go func() {
			log.Infof("starting categorization API server on http://%s", listenAddr)
			httpErr <- router.Run(listenAddr)
		}()

		workerErr := make(chan error, 1)
		go func() {
			workerErr <- runWorker(appInstance)
		}()

		select {
		case err := <-httpErr:
			return fmt.Errorf("API server exited: %w", err)
		case err := <-workerErr:
			if err != nil {
				return fmt.Errorf("worker exited: %w", err)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
