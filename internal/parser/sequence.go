package parser

import (
	"fmt"
	"strconv"
	"strings"
)

const stepFieldCount = 13

// feedbackAttach maps each legal feedback tag to which of the two feedback
// fields it carries into the step.
var feedbackAttach = map[string]struct{ first, second bool }{
	FeedbackNone:      {},
	FeedbackChoice:    {},
	FeedbackTrueFalse: {second: true},
	FeedbackAlways:    {first: true, second: true},
}

// decodeSequence turns one sequence section into ordered steps. Sequence
// lines carry no quoted text, so plain space-splitting is enough. The
// catalog is read-only here; choices are resolved against it and embedded
// by value.
func decodeSequence(sec section, catalog Catalog) ([]Step, error) {
	var steps []Step

	for i, line := range sec.lines {
		if line == "" {
			continue
		}

		step, err := decodeStep(strings.Fields(line), catalog, sec.line(i))
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return steps, nil
}

func decodeStep(fields []string, catalog Catalog, line int) (Step, error) {
	if len(fields) != stepFieldCount {
		return Step{}, fmt.Errorf("line %d: expected %d fields, got %d", line, stepFieldCount, len(fields))
	}

	onset, err := strconv.Atoi(fields[0])
	if err != nil {
		return Step{}, fmt.Errorf("line %d: onset time: %w", line, err)
	}

	step := Step{
		OnsetTime:    onset,
		Identifier:   fields[1],
		Answer:       fields[5],
		FeedbackType: fields[8],
		Test:         fields[12],
	}

	if step.StimulusDuration, err = decodeTiming(fields[2], line, "stimulus duration"); err != nil {
		return Step{}, err
	}
	if step.Choices, err = resolveChoices(fields[3], catalog, line); err != nil {
		return Step{}, err
	}
	if step.ChoiceDuration, err = decodeTiming(fields[4], line, "choice duration"); err != nil {
		return Step{}, err
	}
	if step.ChoiceOnsetRelativeToSim, err = decodeTiming(fields[6], line, "choice onset"); err != nil {
		return Step{}, err
	}
	if step.ReactionTime, err = decodeTiming(fields[7], line, "reaction time"); err != nil {
		return Step{}, err
	}
	if step.FeedbackDuration, err = decodeTiming(fields[9], line, "feedback duration"); err != nil {
		return Step{}, err
	}

	attach, ok := feedbackAttach[step.FeedbackType]
	if !ok {
		return Step{}, &InvalidFeedbackTypeError{Line: line, Value: step.FeedbackType}
	}
	if attach.first {
		fb1 := fields[10]
		step.Feedback1 = &fb1
	}
	if attach.second {
		fb2 := fields[11]
		step.Feedback2 = &fb2
	}

	return step, nil
}

// decodeTiming applies the sentinel rule: "n" means none, "inf" means
// infinite, anything else must parse as an integer millisecond count.
func decodeTiming(token string, line int, field string) (Timing, error) {
	switch token {
	case "n":
		return Timing{Kind: TimingNone}, nil
	case "inf":
		return Timing{Kind: TimingInfinite}, nil
	}
	millis, err := strconv.Atoi(token)
	if err != nil {
		return Timing{}, fmt.Errorf("line %d: %s: %w", line, field, err)
	}
	return Timing{Kind: TimingValue, Millis: millis}, nil
}

// resolveChoices expands a comma-separated identifier list into embedded
// stimulus entities. The "n" sentinel yields a nil slice. A lookup miss is
// fatal; choices are never silently dropped.
func resolveChoices(token string, catalog Catalog, line int) ([]Stimulus, error) {
	if token == "n" {
		return nil, nil
	}

	ids := strings.Split(token, ",")
	choices := make([]Stimulus, 0, len(ids))
	for _, id := range ids {
		stim, ok := catalog[id]
		if !ok {
			return nil, &UnknownStimulusError{Line: line, Identifier: id}
		}
		choices = append(choices, stim)
	}
	return choices, nil
}
