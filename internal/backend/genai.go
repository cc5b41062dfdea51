package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/dmitrijs2005/genstudio/internal/common"
	"github.com/dmitrijs2005/genstudio/internal/logging"
)

// GenAIClient implements Client on top of the official Gemini SDK.
type GenAIClient struct {
	client     *genai.Client
	apiKey     string
	httpClient *http.Client
	log        logging.Logger
}

// NewGenAIClient builds a backend client for the given credential.
// An empty key is a precondition failure, reported before any network call.
func NewGenAIClient(ctx context.Context, apiKey string, log logging.Logger) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, common.ErrorMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIClient{
		client:     client,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        log,
	}, nil
}

// GenerateImage runs one multimodal call. The negative prompt has no native
// parameter on this model family, so it is folded into the prompt text.
func (c *GenAIClient) GenerateImage(ctx context.Context, r ImageRequest) (*ImageResult, error) {
	prompt := r.Prompt
	if r.NegativePrompt != "" {
		prompt = prompt + "\nAvoid: " + r.NegativePrompt
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if len(r.InputImage) > 0 {
		parts = append(parts, genai.NewPartFromBytes(r.InputImage, r.InputMIME))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, r.Model, contents, imageCallConfig(r))
	if err != nil {
		return nil, fmt.Errorf("image generation call failed: %w", err)
	}

	return mapImageResponse(resp), nil
}

// GenerateImages calls the alternate (prompt-only) image model family.
func (c *GenAIClient) GenerateImages(ctx context.Context, r ImageRequest) (*ImageResult, error) {
	resp, err := c.client.Models.GenerateImages(ctx, r.Model, r.Prompt, imagesCallConfig(r))
	if err != nil {
		return nil, fmt.Errorf("image generation call failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 {
		return &ImageResult{}, nil
	}

	img := resp.GeneratedImages[0]
	if img.RAIFilteredReason != "" {
		return &ImageResult{Blocked: true, BlockReason: img.RAIFilteredReason}, nil
	}
	if img.Image == nil {
		return &ImageResult{}, nil
	}
	return &ImageResult{Data: img.Image.ImageBytes, MIMEType: img.Image.MIMEType}, nil
}

// StartVideoJob submits a long-running video generation job.
func (c *GenAIClient) StartVideoJob(ctx context.Context, r VideoRequest) (*VideoJob, error) {
	var image *genai.Image
	if len(r.InputImage) > 0 {
		image = &genai.Image{ImageBytes: r.InputImage, MIMEType: r.InputMIME}
	}

	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		NegativePrompt: r.NegativePrompt,
	}
	if r.AspectRatio != "" {
		cfg.AspectRatio = r.AspectRatio
	}

	op, err := c.client.Models.GenerateVideos(ctx, r.Model, r.Prompt, image, cfg)
	if err != nil {
		return nil, fmt.Errorf("video job submission failed: %w", err)
	}

	return newVideoJob(op), nil
}

// PollVideoJob refreshes the operation state once.
func (c *GenAIClient) PollVideoJob(ctx context.Context, job *VideoJob) (*VideoJob, error) {
	op, ok := job.op.(*genai.GenerateVideosOperation)
	if !ok {
		return nil, fmt.Errorf("%w: video job carries no backend operation", common.ErrorInternal)
	}

	op, err := c.client.Operations.GetVideosOperation(ctx, op, nil)
	if err != nil {
		return nil, fmt.Errorf("video job poll failed: %w", err)
	}

	return newVideoJob(op), nil
}

// DownloadVideo fetches media bytes with the credential attached as a header.
func (c *GenAIClient) DownloadVideo(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video download failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// AuthenticatedURL appends the API key as a query parameter, producing a URL
// a media player can open directly.
func (c *GenAIClient) AuthenticatedURL(uri string) string {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + "key=" + c.apiKey
}

func newVideoJob(op *genai.GenerateVideosOperation) *VideoJob {
	job := &VideoJob{Name: op.Name, Done: op.Done, op: op}
	if !op.Done || op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return job
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return job
	}
	job.VideoURI = video.URI
	job.VideoBytes = video.VideoBytes
	job.MIMEType = video.MIMEType
	return job
}

// imageCallConfig builds the call config for a multimodal image request.
// Any non-nil seed is forwarded, zero included; seeds are range-checked at
// parse time, so the narrowing conversion cannot truncate.
func imageCallConfig(r ImageRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	if r.Seed != nil {
		cfg.Seed = genai.Ptr(int32(*r.Seed))
	}
	if r.AspectRatio != "" {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: r.AspectRatio}
	}
	return cfg
}

// imagesCallConfig builds the call config for the alternate image model family.
func imagesCallConfig(r ImageRequest) *genai.GenerateImagesConfig {
	cfg := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		NegativePrompt: r.NegativePrompt,
	}
	if r.AspectRatio != "" {
		cfg.AspectRatio = r.AspectRatio
	}
	if r.Seed != nil {
		cfg.Seed = genai.Ptr(int32(*r.Seed))
	}
	return cfg
}

// mapImageResponse flattens an SDK response into the transport-level result
// the orchestrator classifies: safety block, inline image data, or text.
func mapImageResponse(resp *genai.GenerateContentResponse) *ImageResult {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return &ImageResult{
			Blocked:     true,
			BlockReason: string(resp.PromptFeedback.BlockReason),
		}
	}
	if len(resp.Candidates) == 0 {
		return &ImageResult{}
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety ||
		cand.FinishReason == genai.FinishReasonProhibitedContent {
		return &ImageResult{Blocked: true, BlockReason: string(cand.FinishReason)}
	}
	if cand.Content == nil {
		return &ImageResult{}
	}

	res := &ImageResult{}
	var texts []string
	for _, part := range cand.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 && res.Data == nil {
			res.Data = part.InlineData.Data
			res.MIMEType = part.InlineData.MIMEType
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	res.Text = strings.Join(texts, "\n")
	return res
}

var _ Client = (*GenAIClient)(nil)
