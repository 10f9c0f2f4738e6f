package parser

import "strconv"

// StimulusType tags the variant of a catalog entry.
type StimulusType string

const (
	StimulusImage    StimulusType = "image"
	StimulusText     StimulusType = "text"
	StimulusTextFile StimulusType = "text_file"
	StimulusAudio    StimulusType = "audio"
	StimulusVideo    StimulusType = "video"

	// Legal tags in the grammar with no field layout. Decoding rejects them.
	StimulusInstruction StimulusType = "instruction"
	StimulusResult      StimulusType = "result"
)

// Stimulus is one catalog entry. Which fields are meaningful depends on Type:
// image uses FilePath and Button; text uses Content, FontSize, FontColor;
// text_file uses FilePath, FontSize, FontColor; audio and video use FilePath
// only.
type Stimulus struct {
	Type      StimulusType
	FilePath  string
	Content   string
	Button    bool
	FontSize  *int
	FontColor *string
}

// Catalog maps stimulus identifiers to entries. Identifiers are
// case-sensitive; a later line with the same identifier overwrites the
// earlier one. The catalog is built once per compile and read-only after.
type Catalog map[string]Stimulus

// TimingKind discriminates a Timing value.
type TimingKind int

const (
	TimingValue TimingKind = iota
	TimingNone
	TimingInfinite
)

// Timing is a millisecond duration field that may instead carry one of the
// two sentinels: "n" (none) or "inf" (infinite).
type Timing struct {
	Kind   TimingKind
	Millis int
}

// String renders the timing back in script form.
func (t Timing) String() string {
	switch t.Kind {
	case TimingNone:
		return "n"
	case TimingInfinite:
		return "inf"
	}
	return strconv.Itoa(t.Millis)
}

// Feedback tags legal in Step.FeedbackType.
const (
	FeedbackNone      = "n"
	FeedbackTrueFalse = "tf"
	FeedbackAlways    = "a"
	FeedbackChoice    = "c"
)

// Step is one timed trial event, decoded positionally from a 13-field
// sequence line.
type Step struct {
	OnsetTime                int
	Identifier               string
	StimulusDuration         Timing
	Choices                  []Stimulus // nil when the field was the "n" sentinel
	ChoiceDuration           Timing
	Answer                   string // opaque: index into Choices or "n"
	ChoiceOnsetRelativeToSim Timing
	ReactionTime             Timing
	FeedbackType             string
	FeedbackDuration         Timing
	Feedback1                *string // attached only for feedback type "a"
	Feedback2                *string // attached for feedback types "a" and "tf"
	Test                     string  // "y" or "n", consumed by the scoring layer
}

// Document is the compiled form of a protocol script: the stimulus catalog
// plus the three ordered sequences. It is never mutated after Compile returns.
type Document struct {
	Catalog Catalog
	Pre     []Step
	Main    []Step
	Post    []Step
}
