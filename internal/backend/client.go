// Package backend is the boundary to the remote generation API. It exposes
// one-shot image calls, the long-running video job surface, and the
// authenticated media download used after a job completes. The package does
// not interpret results beyond transport-level mapping; classifying a
// response as success, refusal or false success is the orchestrator's job.
package backend

import "context"

// ImageRequest describes one image generation call. Seed is nil for an
// unseeded call; a non-nil Seed is always forwarded, including zero, so a
// fixed seed of 0 stays reproducible.
type ImageRequest struct {
	Prompt         string
	NegativePrompt string
	Model          string
	AspectRatio    string
	Seed           *int64
	InputImage     []byte
	InputMIME      string
}

// ImageResult is the transport-level outcome of an image call. Exactly one
// of the three shapes is meaningful: Blocked, inline Data, or bare Text.
type ImageResult struct {
	Data        []byte
	MIMEType    string
	Text        string
	Blocked     bool
	BlockReason string
}

// VideoRequest describes one video job submission.
type VideoRequest struct {
	Prompt         string
	NegativePrompt string
	Model          string
	AspectRatio    string
	InputImage     []byte
	InputMIME      string
}

// VideoJob is the handle of a long-running video generation job. Poll it
// with Client.PollVideoJob until Done; afterwards VideoURI (and sometimes
// VideoBytes) describe the result.
type VideoJob struct {
	Name       string
	Done       bool
	VideoURI   string
	VideoBytes []byte
	MIMEType   string

	op any // backend-native operation handle, round-tripped through polls
}

// Client is the calling contract for the remote generation backend.
// Every method requires a configured credential; a missing key fails at
// client construction, before any network call.
type Client interface {
	// GenerateImage runs one multimodal image call and returns its raw result.
	GenerateImage(ctx context.Context, r ImageRequest) (*ImageResult, error)

	// GenerateImages runs one call against the alternate image model family,
	// which accepts a bare prompt and always answers with image bytes or an
	// error (no conversational text channel).
	GenerateImages(ctx context.Context, r ImageRequest) (*ImageResult, error)

	// StartVideoJob submits a video generation job and returns its handle.
	StartVideoJob(ctx context.Context, r VideoRequest) (*VideoJob, error)

	// PollVideoJob refreshes the job handle's completion state.
	PollVideoJob(ctx context.Context, job *VideoJob) (*VideoJob, error)

	// DownloadVideo fetches the bytes behind a completed job's media URI
	// using the stored credential; the URI is not self-authenticating.
	DownloadVideo(ctx context.Context, uri string) ([]byte, error)

	// AuthenticatedURL returns the media URI with the credential attached,
	// usable directly by a media player when a programmatic fetch fails.
	AuthenticatedURL(uri string) string
}
