package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainrun/chainrun/internal/config"
	"github.com/chainrun/chainrun/internal/store"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Networks: map[uint64]config.Network{
			1: {Name: "mainnet", RPCURL: "http://127.0.0.1:8545"},
		},
		HistoryDB: filepath.Join(t.TempDir(), "history.db"),
	}
}

const checklistJSON = `{
  "requester": "ops",
  "steps": [
    {"type": "manual", "id": "approve", "description": "sign-off"},
    {"type": "manual", "id": "announce", "depends_on": ["approve"]}
  ]
}
`

func writeChecklist(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(checklistJSON), 0o644))
	return path
}

func TestSessionLifecycle(t *testing.T) {
	a, err := New(testConfig(t), io.Discard)
	require.NoError(t, err)
	defer a.Close()

	ctx := a.Context(context.Background())
	sess, err := a.OpenSession(ctx, writeChecklist(t))
	require.NoError(t, err)

	require.NoError(t, sess.Runner.CompleteManual(ctx, "approve", "yes"))
	require.NoError(t, sess.Save())

	reloaded, err := store.Load(sess.Path)
	require.NoError(t, err)
	assert.True(t, reloaded.Step("approve").Complete())
	assert.False(t, reloaded.Complete, "one open step keeps the checklist open")

	require.NoError(t, sess.Runner.CompleteManual(ctx, "announce", "done"))
	require.NoError(t, sess.Save())

	reloaded, err = store.Load(sess.Path)
	require.NoError(t, err)
	assert.True(t, reloaded.Complete)
}

func TestSessionRecordsAudit(t *testing.T) {
	a, err := New(testConfig(t), io.Discard)
	require.NoError(t, err)
	defer a.Close()

	ctx := a.Context(context.Background())
	path := writeChecklist(t)
	sess, err := a.OpenSession(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sess.Runner.CompleteManual(ctx, "approve", "yes"))

	ids, err := a.History().RunIDs(ctx, path)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	events, err := a.History().Events(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "approve", events[0].StepID)
	assert.True(t, events[0].Success)
}

func TestNewRejectsBadKey(t *testing.T) {
	t.Setenv("CHAINRUN_APP_TEST_KEY", "not-a-key")
	cfg := testConfig(t)
	cfg.Sender.KeyEnv = "CHAINRUN_APP_TEST_KEY"

	_, err := New(cfg, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender key")
}

func TestOpenSessionValidatesGraph(t *testing.T) {
	a, err := New(testConfig(t), io.Discard)
	require.NoError(t, err)
	defer a.Close()

	path := filepath.Join(t.TempDir(), "bad.json")
	body := `{"requester":"ops","steps":[{"type":"manual","id":"a","depends_on":["ghost"]}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err = a.OpenSession(a.Context(context.Background()), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}
