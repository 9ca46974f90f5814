package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Method is a parsed human-readable method signature descriptor, e.g.
// "transfer(address,uint256)" or "balanceOf(address)(uint256)" with an
// optional second group declaring return types. Tuples are not supported.
type Method struct {
	Name    string
	Inputs  abi.Arguments
	Outputs abi.Arguments

	canonical string
}

// ParseSignature parses a method signature descriptor.
func ParseSignature(descriptor string) (*Method, error) {
	s := strings.TrimSpace(descriptor)
	open := strings.IndexByte(s, '(')
	if open <= 0 {
		return nil, fmt.Errorf("invalid method signature %q", descriptor)
	}
	name := s[:open]

	groups, err := splitGroups(s[open:])
	if err != nil {
		return nil, fmt.Errorf("invalid method signature %q: %w", descriptor, err)
	}
	if len(groups) == 0 || len(groups) > 2 {
		return nil, fmt.Errorf("invalid method signature %q: expected argument types and optional return types", descriptor)
	}

	inputs, err := parseArguments(groups[0])
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", name, err)
	}
	var outputs abi.Arguments
	if len(groups) == 2 {
		outputs, err = parseArguments(groups[1])
		if err != nil {
			return nil, fmt.Errorf("method %s returns: %w", name, err)
		}
	}

	types := make([]string, len(inputs))
	for i, arg := range inputs {
		types[i] = arg.Type.String()
	}
	return &Method{
		Name:      name,
		Inputs:    inputs,
		Outputs:   outputs,
		canonical: name + "(" + strings.Join(types, ",") + ")",
	}, nil
}

// Canonical returns the canonical signature used for selector derivation.
func (m *Method) Canonical() string { return m.canonical }

// Selector returns the 4-byte function selector.
func (m *Method) Selector() []byte {
	return crypto.Keccak256([]byte(m.canonical))[:4]
}

// Pack coerces the string arguments into ABI values and returns the full
// calldata: selector followed by the ABI-encoded arguments.
func (m *Method) Pack(args []string) ([]byte, error) {
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("method %s expects %d arguments, got %d", m.Name, len(m.Inputs), len(args))
	}
	values := make([]any, len(args))
	for i, raw := range args {
		v, err := coerceArg(m.Inputs[i].Type, raw)
		if err != nil {
			return nil, fmt.Errorf("method %s argument %d: %w", m.Name, i, err)
		}
		values[i] = v
	}
	encoded, err := m.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("method %s: %w", m.Name, err)
	}
	return append(m.Selector(), encoded...), nil
}

// Unpack decodes a call result into a display string. With declared return
// types the values are decoded and comma-joined; without them the raw
// result is returned as hex.
func (m *Method) Unpack(data []byte) (string, error) {
	if len(m.Outputs) == 0 {
		return hexutil.Encode(data), nil
	}
	values, err := m.Outputs.Unpack(data)
	if err != nil {
		return "", fmt.Errorf("method %s result: %w", m.Name, err)
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ","), nil
}

// splitGroups splits "(a,b)(c)" into ["a,b", "c"], validating that the
// parentheses are balanced, unnested and cover the whole string.
func splitGroups(s string) ([]string, error) {
	var groups []string
	for len(s) > 0 {
		if s[0] != '(' {
			return nil, fmt.Errorf("unexpected %q", s)
		}
		close := strings.IndexByte(s, ')')
		if close < 0 {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
		inner := s[1:close]
		if strings.ContainsAny(inner, "()") {
			return nil, fmt.Errorf("nested types are not supported")
		}
		groups = append(groups, inner)
		s = s[close+1:]
	}
	return groups, nil
}

func parseArguments(group string) (abi.Arguments, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, nil
	}
	parts := strings.Split(group, ",")
	args := make(abi.Arguments, 0, len(parts))
	for _, p := range parts {
		typ, err := abi.NewType(strings.TrimSpace(p), "", nil)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", strings.TrimSpace(p), err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args, nil
}
