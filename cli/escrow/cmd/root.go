package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "ESCROW"
	defaultConfigFile = "config.yaml"
)

type baseConfiguration struct {
	// HomeDir is where the db and config files live by default.
	HomeDir string
	CfgFile string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// New builds the root command of the escrow partition CLI.
func New() *cobra.Command {
	config := &baseConfiguration{}
	rootCmd := &cobra.Command{
		Use:           "escrow",
		Short:         "conditional payment escrow partition",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd, config)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&config.HomeDir, "home", defaultHomeDir(), "set the escrow home directory")
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "", fmt.Sprintf("config file (default is $home/%s)", defaultConfigFile))
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info", "logging level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().StringVar(&config.LogFile, "log-file", "stderr", "log output: stderr, stdout, discard or a file path")

	rootCmd.AddCommand(newStartCmd(config))
	return rootCmd
}

func defaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".escrow"
	}
	return filepath.Join(home, ".escrow")
}

/*
initializeConfig reads the config file (when present) and binds environment
variables so that flag values can also be provided as ESCROW_* env vars or
config file keys, flags taking precedence.
*/
func initializeConfig(cmd *cobra.Command, config *baseConfiguration) error {
	v := viper.New()

	cfgFile := config.CfgFile
	if cfgFile == "" {
		cfgFile = filepath.Join(config.HomeDir, defaultConfigFile)
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		// a missing default config file is fine, an explicitly given one is not
		if config.CfgFile != "" {
			return fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			if err := cmd.Flags().Set(f.Name, v.GetString(f.Name)); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		}
	})
	return bindErr
}
