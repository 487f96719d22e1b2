package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/vedex-deployer/internal/artifact"
	"github.com/altuslabsxyz/vedex-deployer/internal/broadcast"
	"github.com/altuslabsxyz/vedex-deployer/internal/config"
	"github.com/altuslabsxyz/vedex-deployer/internal/deploy"
	"github.com/altuslabsxyz/vedex-deployer/internal/output"
	"github.com/altuslabsxyz/vedex-deployer/internal/thor"
)

var deployYes bool

// DeployResult is the JSON output of the deploy command.
type DeployResult struct {
	Network  string         `json:"network"`
	ChainTag string         `json:"chain_tag"`
	Deployer string         `json:"deployer"`
	Run      *deploy.Result `json:"run"`
}

// NewDeployCmd creates the deploy command.
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <private-key|-> <node-url> <chain-tag>",
		Short: "Deploy the exchange contracts and create the initial pair",
		Long: `Deploy the exchange contracts and create the initial trading pair.

The sequence is fixed and dependency-ordered:
  1. Deploy the wrapped base asset contract
  2. Deploy the pair factory (fee-to-setter = deployer)
  3. Deploy the router (factory + wrapper addresses)
  4. Call the factory's createPair for wrapper/energy

Pass "-" as the private key to enter it on the terminal without echo.
The chain tag is the network discriminator in hex, e.g. 0xa4.`,
		Args: cobra.ExactArgs(3),
		RunE: runDeploy,
	}

	cmd.Flags().BoolVarP(&deployYes, "yes", "y", false,
		"Skip the confirmation prompt")

	return cmd
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := output.DefaultLogger

	key, err := readPrivateKey(args[0])
	if err != nil {
		return err
	}
	nodeURL := args[1]
	chainTag, err := parseChainTag(args[2])
	if err != nil {
		return err
	}

	cfg := config.Default()
	if err := cfg.Apply(GetLoadedFileConfig()); err != nil {
		return err
	}

	structured := log.NewNopLogger()
	if verbose && !jsonMode {
		structured = log.NewLogger(os.Stderr)
	}

	chain := thor.NewClient(nodeURL, structured)
	caster := broadcast.NewBroadcaster(chain, structured).
		WithPollInterval(cfg.PollInterval).
		WithWaitTimeout(cfg.WaitTimeout)
	orch := deploy.NewOrchestrator(chain, caster, key, chainTag, structured).
		WithMinEnergy(math.NewIntWithDecimal(cfg.MinEnergy, 18))

	deployer := orch.Deployer()
	logger.Bold("Deployer: %s", deployer.Hex())

	account, err := chain.GetAccount(ctx, strings.ToLower(deployer.Hex()), "best")
	if err != nil {
		return err
	}
	logger.Info("VET:  %s", displayUnits(account.Balance))
	logger.Info("VTHO: %s", displayUnits(account.Energy))
	logger.Info("EOA:  %t", !account.HasCode)

	wrapper, err := artifact.Load(cfg.WrapperArtifact)
	if err != nil {
		return err
	}
	factory, err := artifact.Load(cfg.FactoryArtifact)
	if err != nil {
		return err
	}
	router, err := artifact.Load(cfg.RouterArtifact)
	if err != nil {
		return err
	}

	plan := deploy.DefaultPlan(wrapper, factory, router, deployer)

	if !deployYes && !jsonMode {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Deploy %d steps to %s (chain tag %s)", len(plan), nodeURL, args[2]),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
				logger.Warn("Deployment cancelled")
				return nil
			}
			return err
		}
	}

	result, runErr := orch.Run(ctx, plan)

	printRunSummary(logger, result)
	if jsonMode {
		out := DeployResult{
			Network:  nodeURL,
			ChainTag: args[2],
			Deployer: deployer.Hex(),
			Run:      result,
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(logger.Writer(), string(encoded))
	}

	if runErr != nil {
		return runErr
	}
	logger.Success("Deployment completed")
	return nil
}

func printRunSummary(logger *output.Logger, result *deploy.Result) {
	logger.Info("")
	logger.Bold("Run %s: %s", result.RunID, result.Status)
	for _, step := range result.Steps {
		line := fmt.Sprintf("  %-12s %-10s", step.Name, step.Status)
		if step.TxID != "" {
			line += " tx=" + step.TxID
		}
		if step.Address != "" {
			line += " address=" + step.Address
		}
		logger.Info("%s", line)
	}
}

// readPrivateKey parses a hex private key, prompting on the terminal
// without echo when the argument is "-".
func readPrivateKey(arg string) (*ecdsa.PrivateKey, error) {
	raw := arg
	if arg == "-" {
		fmt.Fprint(os.Stderr, "Private key: ")
		entered, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		raw = string(entered)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
