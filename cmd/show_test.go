package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_RequiresInit(t *testing.T) {
	inTempDir(t)
	var buf bytes.Buffer
	err := RunShow(&buf, "alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run `epc init` first")
}

func TestShow_UnregisteredProtocol(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	err := RunShow(&buf, "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "protocol ghost not registered")
}

func TestShow_PrintsSummary(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "alpha", sampleProtocol)
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, "alpha"))

	out := buf.String()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "stimuli: 4 (image 2, text 2)")
	assert.Contains(t, out, "pre: 1 steps over 0 ms")
	assert.Contains(t, out, "main: 2 steps over 500 ms")
	assert.Contains(t, out, "post: 1 steps over 0 ms")
}

func TestShow_CompileErrorSurfaces(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "broken", brokenProtocol)
	runSync(t)

	var buf bytes.Buffer
	err := RunShow(&buf, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown stimulus identifier "MISSING"`)
}

func TestShow_EmptySequences(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeProtocol(t, "bare", `[Descriptions]
[EndDescriptions]
[PreSeq]
[EndPreSeq]
[MainSeq]
[EndMainSeq]
[PostSeq]
[EndPostSeq]
`)
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, "bare"))

	out := buf.String()
	assert.Contains(t, out, "stimuli: 0")
	assert.Contains(t, out, "main: 0 steps")
}
