package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExecutionContext(t *testing.T) {
	c := &Checklist{
		Requester: "ops",
		Steps: Steps{
			&ManualStep{Header: Header{ID: "manual-done"}, Value: String("hello")},
			&ManualStep{Header: Header{ID: "manual-pending"}},
			&ViewStep{Header: Header{ID: "view-done"}, ChainID: 1, Output: String("42")},
			&RawStep{Header: Header{ID: "raw-ok"}, ChainID: 1, TxHash: String("0xaa"), Success: Bool(true)},
			&RawStep{Header: Header{ID: "raw-no-flag"}, ChainID: 1, TxHash: String("0xbb")},
			&MethodStep{Header: Header{ID: "method-failed"}, ChainID: 1, TxHash: String("0xcc"), Success: Bool(false), Output: String("execution reverted")},
		},
	}

	ec := BuildExecutionContext(c)

	assert.Len(t, ec, 5, "incomplete steps contribute no entry")
	assert.NotContains(t, ec, "manual-pending")

	assert.Equal(t, StepResult{Success: true, Value: "hello"}, ec["manual-done"])
	assert.Equal(t, StepResult{Success: true, Value: "42"}, ec["view-done"])
	assert.Equal(t, StepResult{Success: true, Value: "0xaa"}, ec["raw-ok"])
	assert.Equal(t, StepResult{Success: false, Value: "0xbb"}, ec["raw-no-flag"], "absent success flag defaults to false")
	assert.Equal(t, StepResult{Success: false, Value: "execution reverted"}, ec["method-failed"])

	for id, res := range ec {
		assert.False(t, res.Executing, "projection never marks %s in-flight", id)
	}
}

func TestBuildExecutionContextIdempotent(t *testing.T) {
	c := &Checklist{
		Steps: Steps{
			&ManualStep{Header: Header{ID: "a"}, Value: String("x")},
			&ViewStep{Header: Header{ID: "b"}, ChainID: 1, Output: String("y")},
		},
	}
	first := BuildExecutionContext(c)
	second := BuildExecutionContext(c)
	assert.Equal(t, first, second)
}

func TestExecutionContextClone(t *testing.T) {
	ec := ExecutionContext{"a": {Success: true, Value: "v"}}
	clone := ec.Clone()
	clone["a"] = StepResult{Executing: true}
	clone["b"] = StepResult{}

	assert.Equal(t, StepResult{Success: true, Value: "v"}, ec["a"])
	assert.NotContains(t, ec, "b")
}

func TestBuildExecutionContextEmpty(t *testing.T) {
	ec := BuildExecutionContext(&Checklist{})
	assert.Empty(t, ec)
}
