// Package models defines the domain objects shared by the orchestrator,
// the gallery and the CLI: generation requests, artifacts and their durable
// archive form.
package models

import "time"

// Artifact is one generated media result with its generation metadata.
// The Id is assigned once at creation and never reused; derived results
// (variations, upscales) get fresh ids rather than mutating the source.
type Artifact struct {
	ID             string
	MediaURL       string
	Kind           Mode
	Prompt         string
	NegativePrompt string
	Style          string
	AspectRatio    string
	Model          string
	Seed           int64
	CreatedAt      time.Time
}

// ArchiveRecord is the durable form of an Artifact. MediaURL holds the
// normalized locator when normalization succeeded, otherwise the artifact's
// original locator (normalization failure never blocks a save).
type ArchiveRecord struct {
	ID             string
	MediaURL       string
	Kind           Mode
	Prompt         string
	NegativePrompt string
	Style          string
	AspectRatio    string
	Model          string
	Seed           int64
	CreatedAt      time.Time
}

// NewArchiveRecord copies an artifact's metadata into its durable form.
// The media locator is copied as-is; normalization is the caller's job.
func NewArchiveRecord(a Artifact) ArchiveRecord {
	return ArchiveRecord{
		ID:             a.ID,
		MediaURL:       a.MediaURL,
		Kind:           a.Kind,
		Prompt:         a.Prompt,
		NegativePrompt: a.NegativePrompt,
		Style:          a.Style,
		AspectRatio:    a.AspectRatio,
		Model:          a.Model,
		Seed:           a.Seed,
		CreatedAt:      a.CreatedAt,
	}
}
