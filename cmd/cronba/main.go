package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cronba/internal/app"
	"cronba/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error the backup run already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

var configPath string

// paths returns the default locations with the --config flag applied.
func paths() (config.Paths, error) {
	p, err := config.DefaultPaths()
	if err != nil {
		return config.Paths{}, fmt.Errorf("getting defaults: %w", err)
	}
	return p.WithConfigFile(configPath), nil
}

// newApp loads the config and creates an App. The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.App, error) {
	p, err := paths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cmd.Context(), cfg, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "cronba -f SOURCE -t DESTINATION -p PATTERN",
	Short: "Archive matching files from one directory into another",
	Long: `cronba copies the files of SOURCE whose names match the regular expression
PATTERN into DESTINATION, packs them into DESTINATION/Arch<unix-millis>.tar and
removes the staged copies. Only the top level of SOURCE is scanned.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		pattern, _ := cmd.Flags().GetString("pattern")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.Backup(cmd.Context(), from, to, pattern); err != nil {
			return &reportedError{err: err}
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paths()
		if err != nil {
			return err
		}

		cfg := config.NewConfig(p)
		if err := config.Init(p.ConfigFile, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", p.ConfigFile)
		fmt.Printf("Log Dir: %s\n", cfg.LogDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := paths()
		if err != nil {
			return err
		}

		cfg, err := config.ReadFromFile(p.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", p.ConfigFile)
		fmt.Printf("Log Dir: %s\n", cfg.LogDir)
		fmt.Printf("Ignore:  %v\n", cfg.Filesystem.Ignore)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:   %s (%s)\n", v.Name, v.Type)
		}
		return nil
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage vaults",
}

var configVaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every configured vault is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(a.Vaults()) == 0 {
			fmt.Println("No vaults configured")
			return nil
		}
		return a.ValidateVaults(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CRONBA_CONFIG_PATH or ~/.config/cronba.toml)")

	rootCmd.Flags().StringP("from", "f", "", "Source directory")
	rootCmd.Flags().StringP("to", "t", "", "Destination directory")
	rootCmd.Flags().StringP("pattern", "p", "", "Regular expression matched against file names")
	rootCmd.MarkFlagRequired("from")
	rootCmd.MarkFlagRequired("to")
	rootCmd.MarkFlagRequired("pattern")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configVaultCmd)
	configVaultCmd.AddCommand(configVaultCheckCmd)

	rootCmd.AddCommand(configCmd)
}
