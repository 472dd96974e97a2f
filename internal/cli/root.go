// Package cli implements the runway command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agencykit/runway"
	"github.com/agencykit/runway/service/dao/run/fs"
	"github.com/agencykit/runway/service/executor"
)

var (
	configFile string
	tenantFlag string
)

var rootCmd = &cobra.Command{
	Use:   "runway",
	Short: "Multi-tenant workflow run engine",
	Long: "Runway executes workflow templates step by step, pausing at " +
		"approval gates until a human decision arrives.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default runway.yaml)")
	rootCmd.PersistentFlags().StringVarP(&tenantFlag, "tenant", "t", "", "tenant to act as")

	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(approvalsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// tenant resolves the effective tenant from the flag or config.
func tenant(config *Config) string {
	if tenantFlag != "" {
		return tenantFlag
	}
	return config.Tenant
}

// newEngine builds an engine from the CLI configuration.
func newEngine() (*runway.Service, *Config, error) {
	config, err := LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	options := []runway.Option{
		runway.WithTemplateBaseURL(config.TemplateURL),
		runway.WithWorkerCount(config.Workers),
	}
	if config.RunStoreURL != "" {
		runDAO, err := fs.New(config.RunStoreURL)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, runway.WithRunDAO(runDAO))
	}
	if config.StepDelay > 0 {
		options = append(options, runway.WithExecutorOptions(executor.WithStepDelay(config.StepDelay)))
	}
	if config.TraceFile != "" {
		options = append(options, runway.WithTracing("runway", version, config.TraceFile))
	}
	return runway.New(options...), config, nil
}

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the runway version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("runway", version)
	},
}
