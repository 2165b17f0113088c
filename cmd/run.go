package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nipow/chain"
	"nipow/chainstore"
	"nipow/config"
	"nipow/events"
	"nipow/exception"
	"nipow/logx"
	"nipow/monitoring"
)

var (
	appConfigPath       string
	consensusConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the light client node",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAppConfig(appConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		params := config.DefaultConsensusParams()
		if consensusConfigPath != "" {
			params, err = config.LoadConsensusParams(consensusConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load consensus params: %w", err)
			}
		}

		store, err := chainstore.Open(&cfg.Store)
		if err != nil {
			return fmt.Errorf("failed to open chain store: %w", err)
		}
		defer store.Close()

		bus := events.NewEventBus()
		engine, err := chain.NewEngine(store, bus, params)
		if err != nil {
			return fmt.Errorf("failed to start chain engine: %w", err)
		}
		defer engine.Close()

		if cfg.Node.MetricsAddr != "" {
			exception.SafeGo("metrics-server", func() {
				monitoring.StartMetricsServer(cfg.Node.MetricsAddr)
			})
		}

		// Log head movements until shutdown.
		subID, headCh := bus.Subscribe()
		defer bus.Unsubscribe(subID)
		exception.SafeGo("head-logger", func() {
			for ev := range headCh {
				logx.Info("NODE", "Head changed | type=", string(ev.Type()), " block=", ev.BlockHash())
			}
		})

		logx.Info("NODE", "Node ", cfg.Node.Name, " up at height ", engine.Height())

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logx.Info("NODE", "Received ", sig.String(), ", shutting down")
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&appConfigPath, "config", "config/genesis.yml", "Path to the node yaml config")
	runCmd.Flags().StringVar(&consensusConfigPath, "consensus", "", "Path to the consensus ini config")
	rootCmd.AddCommand(runCmd)
}
