package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"categorization-service/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

// serveCmd runs only the HTTP façade. The queue bridge runs separately
// under `worker`, or both together under `run`.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP categorization API",
	Long: `Starts the HTTP server exposing the liveness endpoint and the
synchronous POST /categorize endpoint. The HTTP path does not persist or
republish results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		handler := apihandlers.NewAPIHandler(appInstance.Categorizer)
		router := apihandlers.NewRouter(handler)

		addr := serveAddr
		if addr == "" {
			addr = appInstance.Config.Server.Addr
		}
		port := servePort
		if port == "" {
			port = appInstance.Config.Server.Port
		}
		listenAddr := fmt.Sprintf("%s:%s", addr, port)
		log.Infof("starting categorization API server on http://%s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides config)")
}
