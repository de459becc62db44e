package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "WAVESMITH"

var (
	configFile   string
	verbose      bool
	quiet        bool
	logLevel     string
	outputFormat string
	outputFile   string
	dataDir      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wavesmith",
	Short: "Single-cycle waveform editor",
	Long: `Edit one periodic audio waveform in two coupled views: the time-domain
cycle of samples and its harmonic spectrum. Every edit keeps both views in
step, is persisted, and can be undone.

Key features:
- Sine, saw, square and triangle presets
- Control point, freehand and harmonic bar editing
- Bounded undo/redo history
- Export as C array, WAV clip or JSON
- Local or S3 persistence`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/wavesmith/wavesmith.yaml)")

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"data directory (default is $HOME/.local/share/wavesmith)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"only log errors")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "",
		"write results to a file instead of stdout")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wavesmith"))
		}
		viper.AddConfigPath("/etc/wavesmith")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("wavesmith")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Failed to read config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	// Bind all flags to viper
	return bindFlags(cmd, viper.GetViper())
}

// configKeyAnnotation marks a command flag with the configuration key it
// overrides
const configKeyAnnotation = "wavesmith_config_key"

// configFlag ties flag name of fs to the configuration key.
func configFlag(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// bindFlags binds each annotated command flag to its configuration key
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 {
			return
		}
		key := keys[0]

		// Bind the flag to viper
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		// Bind to environment variable
		envVar := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envVar); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
