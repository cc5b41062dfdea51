package models

import "strings"

// Mode selects the kind of media a generation request produces.
type Mode string

const (
	ModeImage Mode = "image"
	ModeVideo Mode = "video"
)

// GenerationRequest carries everything needed to turn one user action into
// backend calls. It is built fresh for every action and never mutated after
// dispatch.
type GenerationRequest struct {
	Mode           Mode
	Prompt         string
	NegativePrompt string
	Model          string
	AspectRatio    string
	Style          string
	Steps          int
	Guidance       float64
	Seed           Seed
	BatchSize      int
	InputImage     []byte
	InputMIME      string
}

// HasInput reports whether the request carries an input image payload.
func (r *GenerationRequest) HasInput() bool {
	return len(r.InputImage) > 0
}

// DecoratedPrompt returns the prompt actually sent to the backend: the raw
// prompt optionally prefixed with the style tag. Artifacts always record the
// undecorated prompt, so this transformation must stay byte-for-byte stable.
func (r *GenerationRequest) DecoratedPrompt() string {
	if strings.TrimSpace(r.Style) == "" {
		return r.Prompt
	}
	return r.Style + " style: " + r.Prompt
}
