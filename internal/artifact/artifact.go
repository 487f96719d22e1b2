// Package artifact loads compiled contract artifacts (Truffle-style JSON
// documents) and ABI-encodes constructor and function call payloads.
package artifact

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Param is one parameter of an ABI descriptor.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is a single ABI descriptor from an artifact. Only function
// entries carry a usable name and inputs; event entries are kept as-is.
type Function struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Inputs []Param `json:"inputs"`
}

// Artifact is a compiled contract document: name, creation bytecode (hex,
// no 0x prefix) and the ordered ABI descriptor list.
type Artifact struct {
	ContractName string     `json:"contractName"`
	Bytecode     string     `json:"bytecode"`
	ABI          []Function `json:"abi"`
}

// Load reads and parses an artifact file.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	return &art, nil
}

// BytecodeBytes decodes the creation bytecode.
func (a *Artifact) BytecodeBytes() ([]byte, error) {
	code, err := hex.DecodeString(a.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in artifact %s: %w", a.ContractName, err)
	}
	return code, nil
}

// FindFunction scans the ABI list for a descriptor with the given name.
// The scan is linear and the first match wins; the artifact format does not
// guarantee uniqueness.
func (a *Artifact) FindFunction(name string) (*Function, error) {
	for i := range a.ABI {
		if a.ABI[i].Name == name {
			return &a.ABI[i], nil
		}
	}
	return nil, &FunctionNotFoundError{Contract: a.ContractName, Function: name}
}

// EncodeCall ABI-encodes a call to the function: 4-byte selector followed
// by the packed arguments. The result is the entire clause payload.
func (f *Function) EncodeCall(args ...interface{}) ([]byte, error) {
	inputs, err := arguments(paramTypes(f.Inputs))
	if err != nil {
		return nil, err
	}

	method := abi.NewMethod(f.Name, f.Name, abi.Function, "", false, false, inputs, nil)
	packed, err := inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments for %s: %w", f.Name, err)
	}
	return append(method.ID, packed...), nil
}

// EncodeParams ABI-encodes a flat argument list against the given type
// strings. Used for constructor arguments appended to creation bytecode.
func EncodeParams(types []string, args []interface{}) ([]byte, error) {
	inputs, err := arguments(types)
	if err != nil {
		return nil, err
	}

	packed, err := inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	return packed, nil
}

func paramTypes(params []Param) []string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

func arguments(types []string) (abi.Arguments, error) {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, fmt.Errorf("unsupported ABI type %q: %w", t, err)
		}
		args[i] = abi.Argument{Type: typ}
	}
	return args, nil
}
