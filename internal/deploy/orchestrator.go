// Package deploy sequences contract deployment and call steps, threading
// addresses produced by earlier steps into the payloads of later ones.
package deploy

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/vedex-deployer/internal/artifact"
	"github.com/altuslabsxyz/vedex-deployer/internal/broadcast"
	"github.com/altuslabsxyz/vedex-deployer/internal/thor"
	"github.com/altuslabsxyz/vedex-deployer/internal/tx"
)

// DefaultMinEnergy is the energy balance (in base units) the deployer must
// exceed before the sequence starts. 14,000 units covers the whole plan.
var DefaultMinEnergy = math.NewIntWithDecimal(14_000, 18)

// Orchestrator executes a step sequence strictly in order. Each step's
// transaction is built from a freshly fetched block and confirmed before
// the next step starts; any failure aborts the rest of the sequence. No
// rollback is attempted: contracts already deployed stay on-chain.
type Orchestrator struct {
	chain     *thor.Client
	builder   *tx.Builder
	caster    *broadcast.Broadcaster
	key       *ecdsa.PrivateKey
	deployer  common.Address
	minEnergy math.Int
	tracker   *Tracker
	logger    log.Logger
	runID     string
}

// NewOrchestrator creates an Orchestrator signing with the given key.
func NewOrchestrator(chain *thor.Client, caster *broadcast.Broadcaster, key *ecdsa.PrivateKey, chainTag byte, logger log.Logger) *Orchestrator {
	runID := uuid.NewString()
	return &Orchestrator{
		chain:     chain,
		builder:   tx.NewBuilder(chain, chainTag),
		caster:    caster,
		key:       key,
		deployer:  crypto.PubkeyToAddress(key.PublicKey),
		minEnergy: DefaultMinEnergy,
		tracker:   NewTracker(),
		logger:    logger.With("module", "deploy", "run_id", runID),
		runID:     runID,
	}
}

// WithMinEnergy overrides the pre-flight energy minimum (base units).
func (o *Orchestrator) WithMinEnergy(min math.Int) *Orchestrator {
	o.minEnergy = min
	return o
}

// Deployer returns the address derived from the signing key.
func (o *Orchestrator) Deployer() common.Address {
	return o.deployer
}

// RunID returns the identifier attached to this run's logs and result.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// StepResult is the recorded outcome of one step.
type StepResult struct {
	Name    string     `json:"name"`
	Kind    StepKind   `json:"kind"`
	Status  StepStatus `json:"status"`
	TxID    string     `json:"tx_id,omitempty"`
	Address string     `json:"address,omitempty"`
}

// Result is the outcome of a whole run.
type Result struct {
	RunID    string            `json:"run_id"`
	Status   SequenceStatus    `json:"status"`
	Steps    []StepResult      `json:"steps"`
	Bindings map[string]string `json:"bindings"`
}

// Preflight fetches the deployer account and asserts it can fund the
// sequence: energy above the configured minimum and no code at the address
// (only a plain account may deploy). Returns the account for diagnostics.
func (o *Orchestrator) Preflight(ctx context.Context) (*thor.Account, error) {
	account, err := o.chain.GetAccount(ctx, strings.ToLower(o.deployer.Hex()), "best")
	if err != nil {
		return nil, err
	}

	energy := math.NewIntFromBigInt((*big.Int)(account.Energy))
	if !energy.GT(o.minEnergy) {
		return nil, &PreflightError{
			Reason: fmt.Sprintf("insufficient energy: have %s, need more than %s base units", energy, o.minEnergy),
		}
	}
	if account.HasCode {
		return nil, &PreflightError{
			Reason: fmt.Sprintf("account %s holds code, only a plain account can deploy", o.deployer.Hex()),
		}
	}
	return account, nil
}

// Run executes the steps in order after a pre-flight check. It stops at the
// first failure and returns the partial result together with a StepError
// wrapping the cause; no later step is submitted after a failure.
func (o *Orchestrator) Run(ctx context.Context, steps []Step) (*Result, error) {
	result := &Result{
		RunID:    o.runID,
		Status:   SequenceRunning,
		Bindings: make(map[string]string),
	}
	for _, step := range steps {
		result.Steps = append(result.Steps, StepResult{Name: step.Name, Kind: step.Kind, Status: StepPending})
	}

	if _, err := o.Preflight(ctx); err != nil {
		result.Status = SequenceAborted
		return result, err
	}

	for i, step := range steps {
		stepResult, err := o.runStep(ctx, step, result.Bindings)
		result.Steps[i] = *stepResult
		if err != nil {
			result.Status = SequenceAborted
			o.logger.Error("sequence aborted", "step", step.Name, "status", stepResult.Status, "err", err)
			return result, &StepError{Step: step.Name, Err: err}
		}
		if step.Kind == KindDeploy {
			result.Bindings[step.Name] = stepResult.Address
		}
	}

	result.Status = SequenceCompleted
	return result, nil
}

func (o *Orchestrator) runStep(ctx context.Context, step Step, bindings map[string]string) (*StepResult, error) {
	state := NewStepState(step.Name)
	stepResult := &StepResult{Name: step.Name, Kind: step.Kind, Status: state.Status}

	fail := func(status StepStatus, err error) (*StepResult, error) {
		if terr := o.tracker.Transition(state, status, err.Error()); terr != nil {
			o.logger.Error("state transition rejected", "step", step.Name, "err", terr)
		}
		stepResult.Status = state.Status
		return stepResult, err
	}

	if err := o.tracker.Transition(state, StepBuilding, ""); err != nil {
		return stepResult, err
	}
	stepResult.Status = state.Status
	o.logger.Info("building transaction", "step", step.Name, "kind", step.Kind)

	clause, err := o.buildClause(step, bindings)
	if err != nil {
		return fail(StepFailed, err)
	}

	body, err := o.builder.Build(ctx, clause, step.Gas, nil)
	if err != nil {
		return fail(StepFailed, err)
	}

	signed, err := tx.Sign(body, o.key)
	if err != nil {
		return fail(StepFailed, err)
	}

	txID, err := o.caster.Submit(ctx, signed)
	if err != nil {
		return fail(StepFailed, err)
	}
	stepResult.TxID = txID
	if err := o.tracker.Transition(state, StepSubmitted, ""); err != nil {
		return stepResult, err
	}
	stepResult.Status = state.Status
	o.logger.Info("transaction submitted", "step", step.Name, "tx", txID)

	if err := o.tracker.Transition(state, StepConfirming, ""); err != nil {
		return stepResult, err
	}
	stepResult.Status = state.Status

	receipt, err := o.caster.AwaitReceipt(ctx, txID)
	if err != nil {
		if broadcast.IsTimeout(err) {
			return fail(StepTimedOut, err)
		}
		return fail(StepFailed, err)
	}

	addrs, err := broadcast.Classify(receipt, txID, step.Kind == KindDeploy)
	if err != nil {
		if broadcast.IsReverted(err) {
			return fail(StepReverted, err)
		}
		return fail(StepFailed, err)
	}

	if err := o.tracker.Transition(state, StepConfirmed, ""); err != nil {
		return stepResult, err
	}
	stepResult.Status = state.Status
	if step.Kind == KindDeploy {
		stepResult.Address = addrs[0]
		o.logger.Info("contract deployed", "step", step.Name, "address", stepResult.Address)
	} else {
		o.logger.Info("call confirmed", "step", step.Name, "tx", txID)
	}
	return stepResult, nil
}

// buildClause assembles the single clause of a step's transaction. Deploy
// steps concatenate ABI-encoded constructor arguments to the creation
// bytecode; call steps use the encoded selector+args as the whole payload.
func (o *Orchestrator) buildClause(step Step, bindings map[string]string) (tx.Clause, error) {
	switch step.Kind {
	case KindDeploy:
		data, err := step.Artifact.BytecodeBytes()
		if err != nil {
			return tx.Clause{}, err
		}
		if len(step.CtorTypes) > 0 {
			values, err := resolveValues(step.CtorTypes, step.Args, bindings)
			if err != nil {
				return tx.Clause{}, err
			}
			params, err := artifact.EncodeParams(step.CtorTypes, values)
			if err != nil {
				return tx.Clause{}, err
			}
			data = append(data, params...)
		}
		return tx.Clause{Value: new(big.Int), Data: data}, nil

	case KindCall:
		fn, err := step.Artifact.FindFunction(step.Function)
		if err != nil {
			return tx.Clause{}, err
		}

		types := make([]string, len(fn.Inputs))
		for i, in := range fn.Inputs {
			types[i] = in.Type
		}
		values, err := resolveValues(types, step.Args, bindings)
		if err != nil {
			return tx.Clause{}, err
		}
		data, err := fn.EncodeCall(values...)
		if err != nil {
			return tx.Clause{}, err
		}

		rawTarget, err := step.Target.Resolve(bindings)
		if err != nil {
			return tx.Clause{}, err
		}
		if !common.IsHexAddress(rawTarget) {
			return tx.Clause{}, fmt.Errorf("invalid call target %q", rawTarget)
		}
		target := common.HexToAddress(rawTarget)
		return tx.Clause{To: &target, Value: new(big.Int), Data: data}, nil

	default:
		return tx.Clause{}, fmt.Errorf("unknown step kind %q", step.Kind)
	}
}
