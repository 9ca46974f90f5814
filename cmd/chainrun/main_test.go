package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainrun/chainrun/internal/model"
)

const fixture = `{
  "requester": "ops",
  "steps": [
    {"type": "manual", "id": "approve"},
    {"type": "view", "id": "check", "depends_on": ["approve"],
     "chain_id": 1, "to": "0x6B175474E89094C44Da98b954EedeAC495271d0F",
     "method": "totalSupply()(uint256)"}
  ]
}
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ops.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNextCommand(t *testing.T) {
	out, err := execute(t, "next", writeFixture(t))
	require.NoError(t, err)
	assert.Contains(t, out, "approve")
	assert.NotContains(t, out, "check", "a step behind an open dependency is not ready")
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", writeFixture(t))
	require.NoError(t, err)
	assert.Contains(t, out, "level 1: approve")
	assert.Contains(t, out, "level 2: check")
}

func TestShowCommand(t *testing.T) {
	out, err := execute(t, "show", writeFixture(t))
	require.NoError(t, err)
	assert.Contains(t, out, "requester: ops")
	assert.Contains(t, out, "ready    manual   approve")
	assert.Contains(t, out, "blocked  view     check")
}

func TestGraphCommandReportsCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.json")
	body := `{"requester":"ops","steps":[
		{"type":"manual","id":"a","depends_on":["b"]},
		{"type":"manual","id":"b","depends_on":["a"]}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := execute(t, "graph", path)
	require.NoError(t, err)
	assert.Contains(t, out, "cyclic (never executable): a, b")
}

func TestExecReport(t *testing.T) {
	t.Run("successful method prints its transaction", func(t *testing.T) {
		step := &model.MethodStep{
			Header: model.Header{ID: "transfer"},
			TxHash: model.String("0x2222"), Success: model.Bool(true),
		}
		line, err := execReport("transfer", step)
		require.NoError(t, err)
		assert.Contains(t, line, "0x2222")
	})

	t.Run("captured failure with hash surfaces as error", func(t *testing.T) {
		step := &model.MethodStep{
			Header: model.Header{ID: "transfer"},
			TxHash: model.String("0x3333"), Success: model.Bool(false),
			Output: model.String("execution reverted"),
		}
		_, err := execReport("transfer", step)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "0x3333")
		assert.Contains(t, err.Error(), "execution reverted")
	})

	t.Run("captured failure without hash reports the step retryable", func(t *testing.T) {
		step := &model.MethodStep{
			Header:  model.Header{ID: "transfer"},
			Success: model.Bool(false),
			Output:  model.String("insufficient funds"),
		}
		_, err := execReport("transfer", step)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed before broadcast")
		assert.Contains(t, err.Error(), "insufficient funds")
	})
}

func TestUnknownChecklist(t *testing.T) {
	_, err := execute(t, "next", filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
