package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/launchmap/launchmap/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "launchmap",
	Short: "Task dependency graph engine",
	Long: `LaunchMap manages execution-order dependencies between plan tasks:
add and remove prerequisite edges, check which tasks are ready to start,
and complete tasks with an audited override when prerequisites are still
incomplete. Every plan's graph is kept acyclic.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/launchmap/config.yaml)")
	rootCmd.PersistentFlags().String("as", "local", "principal ID to act as")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/launchmap")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LAUNCHMAP")
	// Replace dots with underscores for nested keys in env vars
	// e.g., LAUNCHMAP_STORAGE_DRIVER for storage.driver
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// principal returns the acting principal from the --as flag.
func principal(cmd *cobra.Command) string {
	p, err := cmd.Flags().GetString("as")
	if err != nil || p == "" {
		return "local"
	}
	return p
}
