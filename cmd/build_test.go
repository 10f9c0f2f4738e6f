package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/epc/internal/db"
)

func TestBuild_RequiresInit(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	err := RunBuild(&buf, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `epc init` first")
}

func TestBuild_CompilesRegisteredProtocols(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "alpha", sampleProtocol)
	writeProtocol(t, "beta", sampleProtocol)
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunBuild(&buf, nil, 0))

	out := buf.String()
	assert.Contains(t, out, "cmp")
	assert.Contains(t, out, filepath.Join("compiled", "alpha.json"))
	assert.Contains(t, out, filepath.Join("compiled", "beta.json"))
	assert.Contains(t, out, "built 2 protocols, 0 failed")

	data, err := os.ReadFile("compiled/alpha.json")
	require.NoError(t, err)

	var doc struct {
		StimulusCatalog map[string]any `json:"stimulusCatalog"`
		Sequences       struct {
			Main []any `json:"main_sequence"`
		} `json:"sequences"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.StimulusCatalog, 4)
	assert.Len(t, doc.Sequences.Main, 2)
}

func TestBuild_RecordsRunAndBuildRows(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "alpha", sampleProtocol)
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunBuild(&buf, nil, 0))

	sqlDB, err := db.Open("protocols/epc.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var runs int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 1, runs)

	var status, outputPath string
	var steps, stimuli int
	require.NoError(t, sqlDB.QueryRow(
		`SELECT status, output_path, steps, stimuli FROM builds LIMIT 1`,
	).Scan(&status, &outputPath, &steps, &stimuli))
	assert.Equal(t, "ok", status)
	assert.Equal(t, filepath.Join("compiled", "alpha.json"), outputPath)
	assert.Equal(t, 4, steps)
	assert.Equal(t, 4, stimuli)
}

func TestBuild_FailedScriptReportsAndExitsNonzero(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "good", sampleProtocol)
	writeProtocol(t, "broken", brokenProtocol)
	runSync(t)

	var buf bytes.Buffer
	err := RunBuild(&buf, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 builds failed")

	out := buf.String()
	assert.Contains(t, out, "err")
	assert.Contains(t, out, `unknown stimulus identifier "MISSING"`)
	assert.Contains(t, out, "cmp")
	assert.Contains(t, out, "built 1 protocols, 1 failed")

	// The good protocol still produced its document.
	_, statErr := os.Stat("compiled/good.json")
	require.NoError(t, statErr)
	_, statErr = os.Stat("compiled/broken.json")
	require.True(t, os.IsNotExist(statErr))

	sqlDB, err := db.Open("protocols/epc.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var message string
	require.NoError(t, sqlDB.QueryRow(`SELECT message FROM builds WHERE status = 'error'`).Scan(&message))
	assert.Contains(t, message, "MISSING")
}

func TestBuild_NamedSubset(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "alpha", sampleProtocol)
	writeProtocol(t, "beta", sampleProtocol)
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunBuild(&buf, []string{"beta"}, 0))

	_, err := os.Stat("compiled/beta.json")
	require.NoError(t, err)
	_, err = os.Stat("compiled/alpha.json")
	require.True(t, os.IsNotExist(err))
}

func TestBuild_UnregisteredNameFails(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	err := RunBuild(&buf, []string{"ghost"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "protocol ghost not registered")
}

func TestBuild_NothingRegistered(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	require.NoError(t, RunBuild(&buf, nil, 0))
	assert.Contains(t, buf.String(), "no protocols registered")
}

func TestBuild_ConcurrentJobs(t *testing.T) {
	inTempDir(t)
	runInit(t)
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		writeProtocol(t, name, sampleProtocol)
	}
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunBuild(&buf, nil, 4))
	assert.Contains(t, buf.String(), "built 6 protocols, 0 failed")

	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		_, err := os.Stat(filepath.Join("compiled", name+".json"))
		require.NoError(t, err, name)
	}
}

func TestBuild_CompactOutputWhenPrettyDisabled(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile("epc.yaml", []byte("pretty: false\n"), 0o644))
	runInit(t)
	writeProtocol(t, "alpha", sampleProtocol)
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunBuild(&buf, nil, 0))

	data, err := os.ReadFile("compiled/alpha.json")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n  ")
}
