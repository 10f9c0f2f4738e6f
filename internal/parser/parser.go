package parser

import "strings"

// Section keywords required in every protocol script.
const (
	sectionDescriptions = "Descriptions"
	sectionPreSeq       = "PreSeq"
	sectionMainSeq      = "MainSeq"
	sectionPostSeq      = "PostSeq"
)

// section is a run of lines between a [Keyword] marker and its [EndKeyword]
// marker. offset is the 0-based index of the first content line in the full
// script, so decoders can report absolute 1-based line numbers.
type section struct {
	lines  []string
	offset int
}

// line converts an index into the section to a 1-based script line number.
func (s section) line(i int) int {
	return s.offset + i + 1
}

// normalize splits raw script content into trimmed lines. Empty lines are
// kept; they match no marker and decoders skip them.
func normalize(content []byte) []string {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// extractSection scans lines from the top for [keyword], then for the first
// [Endkeyword] after it, and returns the lines strictly between the two.
// End markers seen before the start marker are not recognized. Later end
// markers are ignored. A missing marker is a SectionNotFoundError.
func extractSection(lines []string, keyword string) (section, error) {
	startMarker := "[" + keyword + "]"
	endMarker := "[End" + keyword + "]"

	start := -1
	for i, line := range lines {
		if start < 0 {
			if line == startMarker {
				start = i
			}
			continue
		}
		if line == endMarker {
			return section{lines: lines[start+1 : i], offset: start + 1}, nil
		}
	}

	if start < 0 {
		return section{}, &SectionNotFoundError{Keyword: keyword, Marker: startMarker}
	}
	return section{}, &SectionNotFoundError{Keyword: keyword, Marker: endMarker}
}

// Compile parses a whole protocol script into a Document. The first error
// from any stage aborts the run; no partial document is returned. Compile
// keeps no state between calls, so distinct scripts may compile concurrently.
func Compile(content []byte) (*Document, error) {
	lines := normalize(content)

	descriptions, err := extractSection(lines, sectionDescriptions)
	if err != nil {
		return nil, err
	}
	preSeq, err := extractSection(lines, sectionPreSeq)
	if err != nil {
		return nil, err
	}
	mainSeq, err := extractSection(lines, sectionMainSeq)
	if err != nil {
		return nil, err
	}
	postSeq, err := extractSection(lines, sectionPostSeq)
	if err != nil {
		return nil, err
	}

	catalog, err := decodeStimuli(descriptions)
	if err != nil {
		return nil, err
	}

	doc := &Document{Catalog: catalog}
	if doc.Pre, err = decodeSequence(preSeq, catalog); err != nil {
		return nil, err
	}
	if doc.Main, err = decodeSequence(mainSeq, catalog); err != nil {
		return nil, err
	}
	if doc.Post, err = decodeSequence(postSeq, catalog); err != nil {
		return nil, err
	}

	return doc, nil
}
