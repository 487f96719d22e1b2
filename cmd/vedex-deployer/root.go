// Package main implements the vedex-deployer CLI.
package main

import (
	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/vedex-deployer/internal/config"
	"github.com/altuslabsxyz/vedex-deployer/internal/output"
)

// Local variables for flag binding (Cobra requires pointers to local vars)
var (
	configPath string
	noColor    bool
	verbose    bool
	jsonMode   bool
)

// loadedFileConfig holds the config.toml contents loaded during pre-run.
var loadedFileConfig *config.FileConfig

// GetLoadedFileConfig returns the config file contents, if any were loaded.
func GetLoadedFileConfig() *config.FileConfig {
	return loadedFileConfig
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vedex-deployer",
		Short: "Deploy the exchange contract suite to a VeChain network",
		Long: `vedex-deployer deploys the exchange contract suite to a VeChain network
by talking directly to a node's REST API.

It runs a fixed, dependency-ordered sequence: deploy the wrapped base asset,
deploy the pair factory, deploy the router, then create the initial trading
pair. Each transaction is confirmed on-chain before the next step starts,
and the first failure aborts the rest of the sequence.

Examples:
  # Deploy to a solo node
  vedex-deployer deploy <private-key> https://solo.veblocks.net 0xa4

  # Read the private key from the terminal without echo
  vedex-deployer deploy - https://solo.veblocks.net 0xa4

  # Inspect an account before deploying
  vedex-deployer status 0xf077b491b355e64048ce21e3a6fc4751eeea77fa https://solo.veblocks.net`,
		PersistentPreRunE: persistentPreRunE,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")

	cmd.AddCommand(NewDeployCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// persistentPreRunE loads the config file and applies global output flags.
// Priority: default < config.toml < flag.
func persistentPreRunE(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	loadedFileConfig = fileCfg

	if !cmd.Flags().Changed("no-color") && fileCfg.NoColor != nil {
		noColor = *fileCfg.NoColor
	}
	if !cmd.Flags().Changed("verbose") && fileCfg.Verbose != nil {
		verbose = *fileCfg.Verbose
	}

	output.DefaultLogger.SetNoColor(noColor)
	output.DefaultLogger.SetVerbose(verbose)
	output.DefaultLogger.SetJSONMode(jsonMode)
	return nil
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := goversion.GetVersionInfo(
				goversion.WithAppDetails(
					"vedex-deployer",
					"Deploy the exchange contract suite to a VeChain network",
					"https://github.com/altuslabsxyz/vedex-deployer",
				),
			)
			cmd.Println(info.String())
		},
	}
}
