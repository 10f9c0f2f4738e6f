package parser

import (
	"fmt"
	"strconv"
)

// decodeStimuli turns the Descriptions section into a catalog. Each
// non-empty line is tokenized space-delimited with double-quote escaping,
// so text content may embed spaces. The first token is the type tag, the
// second the identifier, the rest are variant fields. A repeated identifier
// overwrites the earlier entry.
func decodeStimuli(sec section) (Catalog, error) {
	catalog := make(Catalog)

	for i, line := range sec.lines {
		if line == "" {
			continue
		}

		tokens := splitQuoted(line, ' ', '"')
		if len(tokens) < 2 {
			return nil, fmt.Errorf("line %d: stimulus line needs a type and an identifier", sec.line(i))
		}

		stim, err := decodeStimulus(tokens[0], tokens[2:], sec.line(i))
		if err != nil {
			return nil, err
		}
		catalog[tokens[1]] = stim
	}

	return catalog, nil
}

func decodeStimulus(typeTag string, fields []string, line int) (Stimulus, error) {
	switch StimulusType(typeTag) {
	case StimulusImage:
		stim := Stimulus{Type: StimulusImage}
		if len(fields) > 0 {
			stim.FilePath = fields[0]
		}
		// Any token in the button position counts, whatever its spelling.
		stim.Button = len(fields) > 1
		return stim, nil

	case StimulusText:
		stim := Stimulus{Type: StimulusText}
		if len(fields) > 0 {
			stim.Content = fields[0]
		}
		return decodeTextFields(stim, fields, line)

	case StimulusTextFile:
		stim := Stimulus{Type: StimulusTextFile}
		if len(fields) > 0 {
			stim.FilePath = fields[0]
		}
		return decodeTextFields(stim, fields, line)

	case StimulusAudio, StimulusVideo:
		stim := Stimulus{Type: StimulusType(typeTag)}
		if len(fields) > 0 {
			stim.FilePath = fields[0]
		}
		return stim, nil
	}

	return Stimulus{}, &InvalidStimulusTypeError{Line: line, Type: typeTag}
}

// decodeTextFields fills the optional font fields shared by text and
// text_file. An omitted or "n" field stays nil.
func decodeTextFields(stim Stimulus, fields []string, line int) (Stimulus, error) {
	if len(fields) > 1 && fields[1] != "n" {
		size, err := strconv.Atoi(fields[1])
		if err != nil {
			return Stimulus{}, fmt.Errorf("line %d: font size: %w", line, err)
		}
		stim.FontSize = &size
	}
	if len(fields) > 2 && fields[2] != "n" {
		color := fields[2]
		stim.FontColor = &color
	}
	return stim, nil
}
