package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Command Registration Tests
// =============================================================================

func TestRecognizeSimCmd_Metadata(t *testing.T) {
	assert.Equal(t, "recognize-sim", recognizeSimCmd.Use)
	assert.Contains(t, recognizeSimCmd.Short, "synthetic recognition")
	assert.NotNil(t, recognizeSimCmd.RunE)
}

func TestRecognizeSimCmd_IsRegisteredOnRoot(t *testing.T) {
	found := false
	for _, cmd := range RootCmd.Commands() {
		if cmd.Use == "recognize-sim" {
			found = true
			break
		}
	}
	assert.True(t, found, "recognizeSimCmd should be registered on RootCmd")
}

func TestRecognizeSimCmd_UsageOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	recognizeSimCmd.SetOut(buf)
	recognizeSimCmd.SetErr(buf)

	err := recognizeSimCmd.Usage()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "recognize-sim")
}

func TestRunRecognizeSim_RequiresAPIKey(t *testing.T) {
	old := recognizeSimAPIKey
	defer func() { recognizeSimAPIKey = old }()
	recognizeSimAPIKey = ""

	err := runRecognizeSim(recognizeSimCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device-api-key")
}

// =============================================================================
// Synthetic frame helper
// =============================================================================

func TestSyntheticFrame_NonEmpty(t *testing.T) {
	frame := syntheticFrame()
	assert.Len(t, frame, 64)
}
