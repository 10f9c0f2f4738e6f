package parser

import "fmt"

// SectionNotFoundError reports a missing section marker. An end marker that
// only appears before its start marker is reported the same way, since the
// scan never recognizes it.
type SectionNotFoundError struct {
	Keyword string
	Marker  string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %s: marker %s not found", e.Keyword, e.Marker)
}

// InvalidStimulusTypeError reports a stimulus line whose type tag is not one
// of the decodable variants. The declared-but-unsupported tags (instruction,
// result) get their own message so the failure is not mistaken for a typo.
type InvalidStimulusTypeError struct {
	Line int
	Type string
}

func (e *InvalidStimulusTypeError) Error() string {
	if e.Type == string(StimulusInstruction) || e.Type == string(StimulusResult) {
		return fmt.Sprintf("line %d: stimulus type %q is declared but has no field layout", e.Line, e.Type)
	}
	return fmt.Sprintf("line %d: unknown stimulus type %q", e.Line, e.Type)
}

// UnknownStimulusError reports a sequence line whose choices field names an
// identifier absent from the stimulus catalog.
type UnknownStimulusError struct {
	Line       int
	Identifier string
}

func (e *UnknownStimulusError) Error() string {
	return fmt.Sprintf("line %d: unknown stimulus identifier %q", e.Line, e.Identifier)
}

// InvalidFeedbackTypeError reports a feedback tag outside n/tf/a/c.
type InvalidFeedbackTypeError struct {
	Line  int
	Value string
}

func (e *InvalidFeedbackTypeError) Error() string {
	return fmt.Sprintf("line %d: invalid feedback type %q", e.Line, e.Value)
}
