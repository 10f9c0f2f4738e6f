package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue is one lint finding, with a 1-based script line where one applies.
type Issue struct {
	Line    int
	Message string
}

// Vet lints a protocol script. A script that fails to compile yields the
// compile error as a single issue. A clean script is checked for advisory
// findings: duplicate stimulus identifiers (the later line wins during
// compile), stimuli nothing references, and sequence sections with no steps.
// Vet never changes what Compile accepts.
func Vet(content []byte) []Issue {
	doc, err := Compile(content)
	if err != nil {
		return []Issue{{Line: errorLine(err), Message: err.Error()}}
	}

	lines := normalize(content)
	var issues []Issue

	issues = append(issues, vetDuplicates(lines)...)
	issues = append(issues, vetUnreferenced(lines, doc.Catalog)...)
	issues = append(issues, vetEmptySequences(lines)...)

	return issues
}

func errorLine(err error) int {
	var stimErr *InvalidStimulusTypeError
	if errors.As(err, &stimErr) {
		return stimErr.Line
	}
	var unknownErr *UnknownStimulusError
	if errors.As(err, &unknownErr) {
		return unknownErr.Line
	}
	var feedbackErr *InvalidFeedbackTypeError
	if errors.As(err, &feedbackErr) {
		return feedbackErr.Line
	}
	return 0
}

func vetDuplicates(lines []string) []Issue {
	sec, err := extractSection(lines, sectionDescriptions)
	if err != nil {
		return nil
	}

	var issues []Issue
	seen := make(map[string]int)
	for i, line := range sec.lines {
		if line == "" {
			continue
		}
		tokens := splitQuoted(line, ' ', '"')
		if len(tokens) < 2 {
			continue
		}
		id := tokens[1]
		if first, ok := seen[id]; ok {
			issues = append(issues, Issue{
				Line:    sec.line(i),
				Message: fmt.Sprintf("stimulus %q redefined; overwrites line %d", id, first),
			})
			continue
		}
		seen[id] = sec.line(i)
	}
	return issues
}

func vetUnreferenced(lines []string, catalog Catalog) []Issue {
	referenced := make(map[string]bool)

	for _, keyword := range []string{sectionPreSeq, sectionMainSeq, sectionPostSeq} {
		sec, err := extractSection(lines, keyword)
		if err != nil {
			continue
		}
		for _, line := range sec.lines {
			fields := strings.Fields(line)
			if len(fields) != stepFieldCount {
				continue
			}
			if fields[3] != "n" {
				for _, id := range strings.Split(fields[3], ",") {
					referenced[id] = true
				}
			}
			// Feedback tokens may name stimuli too.
			referenced[fields[10]] = true
			referenced[fields[11]] = true
		}
	}

	var unused []string
	for id := range catalog {
		if !referenced[id] {
			unused = append(unused, id)
		}
	}
	sort.Strings(unused)

	issues := make([]Issue, 0, len(unused))
	for _, id := range unused {
		issues = append(issues, Issue{Message: fmt.Sprintf("stimulus %q is never referenced", id)})
	}
	return issues
}

func vetEmptySequences(lines []string) []Issue {
	var issues []Issue
	for _, keyword := range []string{sectionPreSeq, sectionMainSeq, sectionPostSeq} {
		sec, err := extractSection(lines, keyword)
		if err != nil {
			continue
		}
		empty := true
		for _, line := range sec.lines {
			if line != "" {
				empty = false
				break
			}
		}
		if empty {
			issues = append(issues, Issue{
				Line:    sec.offset,
				Message: fmt.Sprintf("section %s has no steps", keyword),
			})
		}
	}
	return issues
}
