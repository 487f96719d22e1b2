package deploy

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/vedex-deployer/internal/artifact"
)

// EnergyContract is the well-known address of the network's energy token
// contract, used as the second asset of the pair-creation call.
const EnergyContract = "0x0000000000000000000000000000456e65726779"

// StepKind tags a step as a contract deployment or a function call.
type StepKind string

const (
	// KindDeploy creates a contract from artifact bytecode.
	KindDeploy StepKind = "deploy"
	// KindCall invokes a function on an already-deployed contract.
	KindCall StepKind = "call"
)

// Arg is one step argument: either a literal value or a reference to the
// address produced by an earlier, already-confirmed step.
type Arg struct {
	literal string
	ref     string
}

// Literal creates an argument with a fixed value.
func Literal(value string) Arg {
	return Arg{literal: value}
}

// Ref creates an argument bound to the output address of a prior step.
func Ref(step string) Arg {
	return Arg{ref: step}
}

// Resolve returns the argument's value, looking referenced steps up in the
// binding table.
func (a Arg) Resolve(bindings map[string]string) (string, error) {
	if a.ref == "" {
		return a.literal, nil
	}
	addr, ok := bindings[a.ref]
	if !ok {
		return "", fmt.Errorf("step %q has not produced an address yet", a.ref)
	}
	return addr, nil
}

// Step is one unit of orchestration work. Deploy steps use Artifact,
// CtorTypes and Args; call steps use Artifact (for the ABI), Target,
// Function and Args. Each step carries its declared gas budget and runs
// exactly once.
type Step struct {
	Name      string
	Kind      StepKind
	Artifact  *artifact.Artifact
	CtorTypes []string
	Args      []Arg
	Target    Arg
	Function  string
	Gas       uint64
}

// DefaultPlan builds the fixed exchange deployment sequence: base asset
// wrapper, factory (fee-to-setter = deployer), router (factory + wrapper),
// then the factory's pair creation for wrapper/energy.
func DefaultPlan(wrapper, factory, router *artifact.Artifact, deployer common.Address) []Step {
	return []Step{
		{
			Name:     "wrapper",
			Kind:     KindDeploy,
			Artifact: wrapper,
			Gas:      3_000_000,
		},
		{
			Name:      "factory",
			Kind:      KindDeploy,
			Artifact:  factory,
			CtorTypes: []string{"address"},
			Args:      []Arg{Literal(deployer.Hex())},
			Gas:       3_000_000,
		},
		{
			Name:      "router",
			Kind:      KindDeploy,
			Artifact:  router,
			CtorTypes: []string{"address", "address"},
			Args:      []Arg{Ref("factory"), Ref("wrapper")},
			Gas:       5_000_000,
		},
		{
			Name:     "create-pair",
			Kind:     KindCall,
			Artifact: factory,
			Target:   Ref("factory"),
			Function: "createPair",
			Args:     []Arg{Ref("wrapper"), Literal(EnergyContract)},
			Gas:      2_500_000,
		},
	}
}

// resolveValues resolves and converts step arguments into the Go values the
// ABI encoder expects for the given type strings.
func resolveValues(types []string, args []Arg, bindings map[string]string) ([]interface{}, error) {
	if len(types) != len(args) {
		return nil, fmt.Errorf("argument count mismatch: %d types, %d args", len(types), len(args))
	}

	values := make([]interface{}, len(args))
	for i, arg := range args {
		raw, err := arg.Resolve(bindings)
		if err != nil {
			return nil, err
		}
		value, err := convertValue(types[i], raw)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func convertValue(abiType, raw string) (interface{}, error) {
	switch {
	case abiType == "address":
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("invalid address %q", raw)
		}
		return common.HexToAddress(raw), nil
	case strings.HasPrefix(abiType, "uint") || strings.HasPrefix(abiType, "int"):
		value, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q for type %s", raw, abiType)
		}
		return value, nil
	case abiType == "bool":
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		return value, nil
	case abiType == "string":
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported argument type %q", abiType)
	}
}
