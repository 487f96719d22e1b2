package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/vedex-deployer/internal/output"
	"github.com/altuslabsxyz/vedex-deployer/internal/thor"
)

// StatusResult is the JSON output of the status command.
type StatusResult struct {
	Address     string `json:"address"`
	VET         string `json:"vet"`
	VTHO        string `json:"vtho"`
	EOA         bool   `json:"eoa"`
	BestBlock   uint32 `json:"best_block"`
	BestBlockID string `json:"best_block_id"`
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <address> <node-url>",
		Short: "Show an account's balances and the current best block",
		Args:  cobra.ExactArgs(2),
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := output.DefaultLogger

	if !common.IsHexAddress(args[0]) {
		return fmt.Errorf("invalid address %q", args[0])
	}
	address := common.HexToAddress(args[0])

	chain := thor.NewClient(args[1], log.NewNopLogger())

	block, err := chain.GetBlock(ctx, "best")
	if err != nil {
		return err
	}
	account, err := chain.GetAccount(ctx, strings.ToLower(address.Hex()), "best")
	if err != nil {
		return err
	}

	if jsonMode {
		encoded, err := json.MarshalIndent(StatusResult{
			Address:     address.Hex(),
			VET:         displayUnits(account.Balance),
			VTHO:        displayUnits(account.Energy),
			EOA:         !account.HasCode,
			BestBlock:   block.Number,
			BestBlockID: block.ID,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(logger.Writer(), string(encoded))
		return nil
	}

	logger.Bold("Account %s", address.Hex())
	logger.Info("VET:  %s", displayUnits(account.Balance))
	logger.Info("VTHO: %s", displayUnits(account.Energy))
	logger.Info("EOA:  %t", !account.HasCode)
	logger.Info("Best block: #%d (%s)", block.Number, block.ID)
	return nil
}

// displayUnits converts a base-unit amount (1e18 per unit) to display units.
func displayUnits(amount *hexutil.Big) string {
	if amount == nil {
		return "0"
	}
	return math.LegacyNewDecFromBigIntWithPrec((*big.Int)(amount), 18).String()
}

// parseChainTag parses the hex chain discriminator, e.g. "0xa4".
func parseChainTag(arg string) (byte, error) {
	tag, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid chain tag %q: %w", arg, err)
	}
	return byte(tag), nil
}
