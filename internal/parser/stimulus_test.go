package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, lines ...string) (Catalog, error) {
	t.Helper()
	return decodeStimuli(section{lines: lines, offset: 1})
}

func TestDecodeStimuli_ImageWithButton(t *testing.T) {
	catalog, err := decodeLines(t, "image I1 img/3.png true")
	require.NoError(t, err)

	stim := catalog["I1"]
	assert.Equal(t, StimulusImage, stim.Type)
	assert.Equal(t, "img/3.png", stim.FilePath)
	assert.True(t, stim.Button)
}

func TestDecodeStimuli_ImageButtonPresenceNotSpelling(t *testing.T) {
	// Any token in the button position counts, even "false".
	catalog, err := decodeLines(t, "image I1 img/3.png false")
	require.NoError(t, err)
	assert.True(t, catalog["I1"].Button)

	catalog, err = decodeLines(t, "image I2 img/4.png")
	require.NoError(t, err)
	assert.False(t, catalog["I2"].Button)
}

func TestDecodeStimuli_TextWithSentinelFonts(t *testing.T) {
	catalog, err := decodeLines(t, `text I2 "hello world" n n`)
	require.NoError(t, err)

	stim := catalog["I2"]
	assert.Equal(t, StimulusText, stim.Type)
	assert.Equal(t, "hello world", stim.Content)
	assert.Nil(t, stim.FontSize)
	assert.Nil(t, stim.FontColor)
}

func TestDecodeStimuli_TextWithFonts(t *testing.T) {
	catalog, err := decodeLines(t, `text T1 "well done" 24 green`)
	require.NoError(t, err)

	stim := catalog["T1"]
	require.NotNil(t, stim.FontSize)
	assert.Equal(t, 24, *stim.FontSize)
	require.NotNil(t, stim.FontColor)
	assert.Equal(t, "green", *stim.FontColor)
}

func TestDecodeStimuli_TextOmittedTrailingFields(t *testing.T) {
	catalog, err := decodeLines(t, `text T1 "short"`)
	require.NoError(t, err)

	stim := catalog["T1"]
	assert.Equal(t, "short", stim.Content)
	assert.Nil(t, stim.FontSize)
	assert.Nil(t, stim.FontColor)
}

func TestDecodeStimuli_TextFile(t *testing.T) {
	catalog, err := decodeLines(t, "text_file F1 text/intro.txt 18 white")
	require.NoError(t, err)

	stim := catalog["F1"]
	assert.Equal(t, StimulusTextFile, stim.Type)
	assert.Equal(t, "text/intro.txt", stim.FilePath)
	assert.Empty(t, stim.Content)
	require.NotNil(t, stim.FontSize)
	assert.Equal(t, 18, *stim.FontSize)
}

func TestDecodeStimuli_AudioAndVideo(t *testing.T) {
	catalog, err := decodeLines(t,
		"audio A1 snd/beep.wav",
		"video V1 vid/clip.mp4",
	)
	require.NoError(t, err)
	assert.Equal(t, "snd/beep.wav", catalog["A1"].FilePath)
	assert.Equal(t, "vid/clip.mp4", catalog["V1"].FilePath)
}

func TestDecodeStimuli_UnknownType(t *testing.T) {
	_, err := decodeLines(t, "hologram H1 holo/1.dat")
	var invalid *InvalidStimulusTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "hologram", invalid.Type)
	assert.Equal(t, 2, invalid.Line)
}

func TestDecodeStimuli_DeclaredButUnsupportedTypes(t *testing.T) {
	for _, tag := range []string{"instruction", "result"} {
		_, err := decodeLines(t, tag+" X1 something")
		var invalid *InvalidStimulusTypeError
		require.ErrorAs(t, err, &invalid, tag)
		assert.Contains(t, err.Error(), "declared but has no field layout")
	}
}

func TestDecodeStimuli_DuplicateIdentifierLastWins(t *testing.T) {
	catalog, err := decodeLines(t,
		"image I1 img/old.png",
		"image I1 img/new.png",
	)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "img/new.png", catalog["I1"].FilePath)
}

func TestDecodeStimuli_BadFontSize(t *testing.T) {
	_, err := decodeLines(t, `text T1 "hi" huge n`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "font size")
}

func TestDecodeStimuli_SkipsEmptyLines(t *testing.T) {
	catalog, err := decodeLines(t, "", "image I1 img/1.png", "")
	require.NoError(t, err)
	assert.Len(t, catalog, 1)
}
