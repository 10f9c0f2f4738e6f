package parser

import "encoding/json"

// Serialize renders a compiled document as interchange JSON. Map keys are
// sorted by the encoder, so the output is deterministic for a given document.
func Serialize(doc *Document) ([]byte, error) {
	return json.Marshal(buildDocument(doc))
}

// SerializeIndent is Serialize with two-space indentation.
func SerializeIndent(doc *Document) ([]byte, error) {
	return json.MarshalIndent(buildDocument(doc), "", "  ")
}

type jsonDocument struct {
	StimulusCatalog map[string]any `json:"stimulusCatalog"`
	Sequences       jsonSequences  `json:"sequences"`
}

type jsonSequences struct {
	Pre  []jsonStep `json:"pre_sequence"`
	Main []jsonStep `json:"main_sequence"`
	Post []jsonStep `json:"post_sequence"`
}

// Each stimulus variant serializes exactly the fields it defines; the
// identifier lives in the catalog key, not the entity.

type jsonImage struct {
	StimulusType string `json:"stimulusType"`
	FilePath     string `json:"filePath"`
	Button       bool   `json:"button"`
}

type jsonText struct {
	StimulusType string  `json:"stimulusType"`
	Content      string  `json:"content"`
	FontSize     *int    `json:"fontSize"`
	FontColor    *string `json:"fontColor"`
}

type jsonTextFile struct {
	StimulusType string  `json:"stimulusType"`
	FilePath     string  `json:"filePath"`
	FontSize     *int    `json:"fontSize"`
	FontColor    *string `json:"fontColor"`
}

type jsonMedia struct {
	StimulusType string `json:"stimulusType"`
	FilePath     string `json:"filePath"`
}

type jsonStep struct {
	OnsetTime                int        `json:"onSetTime"`
	Identifier               string     `json:"identifier"`
	StimulusDuration         jsonTiming `json:"stimulusDuration"`
	Choices                  []any      `json:"choices"`
	ChoiceDuration           jsonTiming `json:"choiceDuration"`
	Answer                   string     `json:"answer"`
	ChoiceOnsetRelativeToSim jsonTiming `json:"choiceOnsetRelativeToSim"`
	ReactionTime             jsonTiming `json:"reactionTime"`
	FeedbackType             string     `json:"feedbackType"`
	FeedbackDuration         jsonTiming `json:"feedbackDuration"`
	Feedback1                *string    `json:"feedback1,omitempty"`
	Feedback2                *string    `json:"feedback2,omitempty"`
	Test                     string     `json:"test"`
}

// jsonTiming encodes the sentinel rule: null for none, "inf" for infinite,
// a bare number otherwise.
type jsonTiming struct {
	Timing
}

func (t jsonTiming) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case TimingNone:
		return []byte("null"), nil
	case TimingInfinite:
		return json.Marshal("inf")
	}
	return json.Marshal(t.Millis)
}

func buildDocument(doc *Document) jsonDocument {
	catalog := make(map[string]any, len(doc.Catalog))
	for id, stim := range doc.Catalog {
		catalog[id] = buildStimulus(stim)
	}
	return jsonDocument{
		StimulusCatalog: catalog,
		Sequences: jsonSequences{
			Pre:  buildSteps(doc.Pre),
			Main: buildSteps(doc.Main),
			Post: buildSteps(doc.Post),
		},
	}
}

func buildStimulus(stim Stimulus) any {
	switch stim.Type {
	case StimulusImage:
		return jsonImage{StimulusType: string(stim.Type), FilePath: stim.FilePath, Button: stim.Button}
	case StimulusText:
		return jsonText{StimulusType: string(stim.Type), Content: stim.Content, FontSize: stim.FontSize, FontColor: stim.FontColor}
	case StimulusTextFile:
		return jsonTextFile{StimulusType: string(stim.Type), FilePath: stim.FilePath, FontSize: stim.FontSize, FontColor: stim.FontColor}
	}
	return jsonMedia{StimulusType: string(stim.Type), FilePath: stim.FilePath}
}

func buildSteps(steps []Step) []jsonStep {
	out := make([]jsonStep, 0, len(steps))
	for _, step := range steps {
		js := jsonStep{
			OnsetTime:                step.OnsetTime,
			Identifier:               step.Identifier,
			StimulusDuration:         jsonTiming{step.StimulusDuration},
			ChoiceDuration:           jsonTiming{step.ChoiceDuration},
			Answer:                   step.Answer,
			ChoiceOnsetRelativeToSim: jsonTiming{step.ChoiceOnsetRelativeToSim},
			ReactionTime:             jsonTiming{step.ReactionTime},
			FeedbackType:             step.FeedbackType,
			FeedbackDuration:         jsonTiming{step.FeedbackDuration},
			Feedback1:                step.Feedback1,
			Feedback2:                step.Feedback2,
			Test:                     step.Test,
		}
		if step.Choices != nil {
			js.Choices = make([]any, len(step.Choices))
			for i, choice := range step.Choices {
				js.Choices[i] = buildStimulus(choice)
			}
		}
		out = append(out, js)
	}
	return out
}
