// Package model defines the checklist document: an ordered sequence of
// heterogeneous steps sharing identity and dependency fields.
//
// Why a sealed interface?
//
// A step is one of exactly four kinds (manual input, read-only view call,
// raw transaction, method-call transaction). Modelling the union as an
// interface with an unexported marker method keeps the set closed to this
// package: every consumer that type-switches over steps handles the same
// four concrete types, and a new kind starts here.
package model

import "fmt"

// Kind discriminates the step union in the persisted representation.
type Kind string

const (
	KindManual Kind = "manual"
	KindView   Kind = "view"
	KindRaw    Kind = "raw"
	KindMethod Kind = "method"
)

// Header holds the fields shared by all step kinds. The Type tag is the
// union discriminator in serialized checklists; Kind() on the concrete
// step is authoritative in memory.
type Header struct {
	Type        Kind     `json:"type" yaml:"type"`
	ID          string   `json:"id" yaml:"id"`
	Executor    string   `json:"executor,omitempty" yaml:"executor,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	DependsOn   []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Step is one unit of work in a checklist.
//
// Result fields on the concrete types are pointers: absence (not a zero
// value) means "not yet executed", matching the persisted representation
// where unexecuted steps simply omit those fields.
type Step interface {
	// Head returns the shared identity and dependency fields.
	Head() *Header
	// Kind reports which variant of the union this step is.
	Kind() Kind
	// Complete reports whether the step has recorded its outcome.
	Complete() bool

	isStep()
}

// ManualStep awaits a free-form value supplied by its executor.
type ManualStep struct {
	Header `yaml:",inline"`

	Value *string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (s *ManualStep) Head() *Header { return &s.Header }
func (s *ManualStep) Kind() Kind    { return KindManual }
func (s *ManualStep) isStep()       {}

// Complete reports whether a value has been supplied.
func (s *ManualStep) Complete() bool { return s.Value != nil }

// ViewStep is a read-only contract call. Params are template strings that
// may reference earlier steps' results.
type ViewStep struct {
	Header `yaml:",inline"`

	ChainID uint64   `json:"chain_id" yaml:"chain_id"`
	To      string   `json:"to" yaml:"to"`
	Method  string   `json:"method" yaml:"method"`
	Params  []string `json:"params,omitempty" yaml:"params,omitempty"`

	Output      *string `json:"output,omitempty" yaml:"output,omitempty"`
	BlockNumber *uint64 `json:"block_number,omitempty" yaml:"block_number,omitempty"`
	BlockHash   *string `json:"block_hash,omitempty" yaml:"block_hash,omitempty"`
}

func (s *ViewStep) Head() *Header { return &s.Header }
func (s *ViewStep) Kind() Kind    { return KindView }
func (s *ViewStep) isStep()       {}

// Complete reports whether the call output has been recorded.
func (s *ViewStep) Complete() bool { return s.Output != nil }

// RawStep is a pre-encoded transaction. Calldata is an opaque 0x-prefixed
// hex payload; Value, when set, is a native-token amount in the smallest
// unit, as a decimal string. Method, when set, is display-only.
type RawStep struct {
	Header `yaml:",inline"`

	ChainID  uint64  `json:"chain_id" yaml:"chain_id"`
	To       string  `json:"to" yaml:"to"`
	Calldata string  `json:"calldata" yaml:"calldata"`
	Value    *string `json:"value,omitempty" yaml:"value,omitempty"`
	Method   *string `json:"method,omitempty" yaml:"method,omitempty"`

	TxHash  *string `json:"tx_hash,omitempty" yaml:"tx_hash,omitempty"`
	Success *bool   `json:"success,omitempty" yaml:"success,omitempty"`
}

func (s *RawStep) Head() *Header { return &s.Header }
func (s *RawStep) Kind() Kind    { return KindRaw }
func (s *RawStep) isStep()       {}

// Complete reports whether a transaction hash has been recorded.
// Success is deliberately not consulted: a mined-but-reverted transaction
// still completes the step.
func (s *RawStep) Complete() bool { return s.TxHash != nil }

// MethodStep is a transaction expressed as a contract method call. Params
// are template strings like ViewStep's. Output records either auxiliary
// call output or, when submission fails after being attempted, the error.
type MethodStep struct {
	Header `yaml:",inline"`

	ChainID uint64   `json:"chain_id" yaml:"chain_id"`
	To      string   `json:"to" yaml:"to"`
	Method  string   `json:"method" yaml:"method"`
	Params  []string `json:"params,omitempty" yaml:"params,omitempty"`
	Value   *string  `json:"value,omitempty" yaml:"value,omitempty"`

	TxHash  *string `json:"tx_hash,omitempty" yaml:"tx_hash,omitempty"`
	Success *bool   `json:"success,omitempty" yaml:"success,omitempty"`
	Output  *string `json:"output,omitempty" yaml:"output,omitempty"`
}

func (s *MethodStep) Head() *Header { return &s.Header }
func (s *MethodStep) Kind() Kind    { return KindMethod }
func (s *MethodStep) isStep()       {}

// Complete reports whether a transaction hash has been recorded.
func (s *MethodStep) Complete() bool { return s.TxHash != nil }

// newStep allocates the concrete variant for a discriminator tag.
func newStep(k Kind) (Step, error) {
	switch k {
	case KindManual:
		return &ManualStep{}, nil
	case KindView:
		return &ViewStep{}, nil
	case KindRaw:
		return &RawStep{}, nil
	case KindMethod:
		return &MethodStep{}, nil
	default:
		return nil, fmt.Errorf("unknown step type %q", string(k))
	}
}

// String returns a pointer to s, for populating optional step fields.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for populating optional step fields.
func Bool(b bool) *bool { return &b }

// Uint64 returns a pointer to v, for populating optional step fields.
func Uint64(v uint64) *uint64 { return &v }
