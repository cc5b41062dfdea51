// Package studio is the generation orchestrator: it turns one user request
// into one or more backend calls, derives per-item seeds so every batch is
// reproducible from a single shown seed, drives long-running video jobs to
// completion, and classifies backend responses into success, refusal or
// false success.
package studio

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/genstudio/internal/backend"
	"github.com/dmitrijs2005/genstudio/internal/common"
	"github.com/dmitrijs2005/genstudio/internal/config"
	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

const (
	// MaxBatchSize bounds image batch fan-out.
	MaxBatchSize = 4

	// VariationCount is how many artifacts one variation request produces.
	VariationCount = 4

	// VariationSeedOffset keeps variation seeds clear of the original
	// batch's seed neighborhood (base .. base+MaxBatchSize-1).
	VariationSeedOffset = 1000
)

// upscaleInstruction is sent together with the source image bytes on an
// upscale call.
const upscaleInstruction = "Enhance this image to a higher resolution. " +
	"Preserve the composition, subject and style exactly; only add detail and sharpness."

// Test seams.
var (
	drawBaseSeed = func() int64 { return rand.Int64N(models.MaxSeed) }
	sleep        = time.Sleep
)

// Service is the generation orchestrator.
type Service struct {
	backend      backend.Client
	cfg          *config.Config
	limiter      *rate.Limiter
	log          logging.Logger
	pollInterval time.Duration

	calls atomic.Int64

	// Single slot for the currently running video job; starting a new job
	// replaces the previous handle.
	mu        sync.Mutex
	activeJob *backend.VideoJob
}

// NewService builds an orchestrator over the given backend client.
func NewService(client backend.Client, cfg *config.Config, log logging.Logger) *Service {
	return &Service{
		backend: client,
		cfg:     cfg,
		// burst of one full batch, refilling once a second
		limiter:      rate.NewLimiter(rate.Every(time.Second), MaxBatchSize),
		log:          log,
		pollInterval: cfg.PollInterval,
	}
}

// Calls returns how many generation calls this session has issued.
func (s *Service) Calls() int64 {
	return s.calls.Load()
}

// GenerateBatch turns one request into batchSize artifacts (image mode) or
// one artifact (video mode). Image batches run in parallel with per-item
// seeds base, base+1, ..., and the result order matches the seed index
// regardless of completion order. If any item fails the whole batch fails.
func (s *Service) GenerateBatch(ctx context.Context, req *models.GenerationRequest) ([]models.Artifact, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if req.Mode == models.ModeVideo {
		a, err := s.GenerateVideo(ctx, req)
		if err != nil {
			return nil, err
		}
		return []models.Artifact{*a}, nil
	}

	n := req.BatchSize
	if n < 1 || n > MaxBatchSize {
		return nil, common.ErrorBatchSize
	}

	base := s.resolveBaseSeed(req.Seed)
	s.log.Info(ctx, "starting image batch", "count", n, "base_seed", base)
	return s.fanOut(ctx, req, base, n)
}

// DeriveVariations produces VariationCount new artifacts around the source
// artifact's seed, using seeds sourceSeed+VariationSeedOffset+index. Like
// GenerateBatch, it is all-or-nothing.
func (s *Service) DeriveVariations(ctx context.Context, src *models.Artifact, req *models.GenerationRequest) ([]models.Artifact, error) {
	if src.Kind != models.ModeImage {
		return nil, common.ErrorNotAnImage
	}
	if src.Seed < 0 {
		return nil, fmt.Errorf("%w: source artifact has no known seed", common.ErrorInternal)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	base := src.Seed + VariationSeedOffset
	s.log.Info(ctx, "deriving variations", "source_id", src.ID, "base_seed", base)
	return s.fanOut(ctx, req, base, VariationCount)
}

// Upscale re-submits the artifact's image bytes with an enhancement
// instruction and returns a new artifact; the source is never mutated, so
// the original stays available for comparison.
func (s *Service) Upscale(ctx context.Context, src *models.Artifact) (*models.Artifact, error) {
	if src.Kind != models.ModeImage {
		return nil, common.ErrorNotAnImage
	}

	data, mime, err := media.DecodeDataURL(src.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("source media is not embedded: %w", err)
	}

	seed := src.Seed
	s.calls.Add(1)
	res, err := s.backend.GenerateImage(ctx, backend.ImageRequest{
		Prompt:      upscaleInstruction,
		Model:       s.cfg.ImageModel,
		AspectRatio: src.AspectRatio,
		Seed:        &seed,
		InputImage:  data,
		InputMIME:   mime,
	})
	if err != nil {
		return nil, err
	}

	locator, err := classifyImageResult(res)
	if err != nil {
		return nil, err
	}

	a := &models.Artifact{
		ID:             uuid.NewString(),
		MediaURL:       locator,
		Kind:           models.ModeImage,
		Prompt:         src.Prompt,
		NegativePrompt: src.NegativePrompt,
		Style:          src.Style,
		AspectRatio:    src.AspectRatio,
		Model:          s.cfg.ImageModel,
		Seed:           src.Seed,
		CreatedAt:      time.Now(),
	}
	return a, nil
}

// GenerateVideo submits one video job and polls it on a fixed interval until
// the backend reports completion. There is no client-side timeout: the loop
// ends only on completion or on a failing backend call. After completion the
// media bytes are fetched with the stored credential; if that fetch fails
// the artifact carries the authenticated URL instead of embedded bytes.
func (s *Service) GenerateVideo(ctx context.Context, req *models.GenerationRequest) (*models.Artifact, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	seed := s.resolveBaseSeed(req.Seed)

	s.calls.Add(1)
	job, err := s.backend.StartVideoJob(ctx, backend.VideoRequest{
		Prompt:         req.DecoratedPrompt(),
		NegativePrompt: req.NegativePrompt,
		Model:          s.videoModel(req),
		AspectRatio:    req.AspectRatio,
		InputImage:     req.InputImage,
		InputMIME:      req.InputMIME,
	})
	if err != nil {
		return nil, err
	}
	s.setActiveJob(job)

	polls := 0
	for !job.Done {
		sleep(s.pollInterval)
		job, err = s.backend.PollVideoJob(ctx, job)
		if err != nil {
			s.setActiveJob(nil)
			return nil, err
		}
		s.setActiveJob(job)
		polls++
	}
	s.setActiveJob(nil)
	s.log.Info(ctx, "video job completed", "polls", polls)

	locator, err := s.resolveVideoLocator(ctx, job)
	if err != nil {
		return nil, err
	}

	a := &models.Artifact{
		ID:             uuid.NewString(),
		MediaURL:       locator,
		Kind:           models.ModeVideo,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Style:          req.Style,
		AspectRatio:    req.AspectRatio,
		Model:          s.videoModel(req),
		Seed:           seed,
		CreatedAt:      time.Now(),
	}
	return a, nil
}

// ActiveJob returns the handle of the currently running video job, if any.
func (s *Service) ActiveJob() *backend.VideoJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeJob
}

func (s *Service) setActiveJob(job *backend.VideoJob) {
	s.mu.Lock()
	s.activeJob = job
	s.mu.Unlock()
}

// resolveVideoLocator implements the two-tier degradation for completed
// jobs: (1) fetch-and-embed bytes, (2) hand back a working-but-unverified
// authenticated URL. Returning nothing silently is not an option.
func (s *Service) resolveVideoLocator(ctx context.Context, job *backend.VideoJob) (string, error) {
	mime := job.MIMEType
	if mime == "" {
		mime = "video/mp4"
	}

	if len(job.VideoBytes) > 0 {
		return media.DataURL(job.VideoBytes, mime), nil
	}
	if job.VideoURI == "" {
		return "", fmt.Errorf("%w: video job completed without media", common.ErrorInternal)
	}

	data, err := s.backend.DownloadVideo(ctx, job.VideoURI)
	if err != nil {
		s.log.Warn(ctx, "video download failed, falling back to authenticated URL", "error", err)
		return s.backend.AuthenticatedURL(job.VideoURI), nil
	}
	return media.DataURL(data, mime), nil
}

// fanOut issues n parallel generation calls with seeds base..base+n-1 and
// assembles results in index order regardless of completion order.
func (s *Service) fanOut(ctx context.Context, req *models.GenerationRequest, base int64, n int) ([]models.Artifact, error) {
	results := make([]models.Artifact, n)
	eg, egCtx := errgroup.WithContext(ctx)

	for i := 0; i < n; i++ {
		eg.Go(func() error {
			if err := s.limiter.Wait(egCtx); err != nil {
				return err
			}
			a, err := s.generateOne(egCtx, req, base+int64(i))
			if err != nil {
				return fmt.Errorf("batch item %d: %w", i+1, err)
			}
			results[i] = *a
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// generateOne runs a single image call with an explicit seed. The prompt
// sent to the backend is the decorated one; the artifact records the
// original, undecorated prompt.
func (s *Service) generateOne(ctx context.Context, req *models.GenerationRequest, seed int64) (*models.Artifact, error) {
	model := s.imageModel(req)

	call := s.backend.GenerateImage
	if strings.HasPrefix(model, "imagen") {
		call = s.backend.GenerateImages
	}

	s.calls.Add(1)
	res, err := call(ctx, backend.ImageRequest{
		Prompt:         req.DecoratedPrompt(),
		NegativePrompt: req.NegativePrompt,
		Model:          model,
		AspectRatio:    req.AspectRatio,
		Seed:           &seed,
		InputImage:     req.InputImage,
		InputMIME:      req.InputMIME,
	})
	if err != nil {
		return nil, err
	}

	locator, err := classifyImageResult(res)
	if err != nil {
		return nil, err
	}

	a := &models.Artifact{
		ID:             uuid.NewString(),
		MediaURL:       locator,
		Kind:           models.ModeImage,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Style:          req.Style,
		AspectRatio:    req.AspectRatio,
		Model:          model,
		Seed:           seed,
		CreatedAt:      time.Now(),
	}
	return a, nil
}

func (s *Service) resolveBaseSeed(seed models.Seed) int64 {
	if seed.IsFixed() {
		return seed.Value()
	}
	return drawBaseSeed()
}

func (s *Service) imageModel(req *models.GenerationRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return s.cfg.ImageModel
}

func (s *Service) videoModel(req *models.GenerationRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return s.cfg.VideoModel
}

func validateRequest(req *models.GenerationRequest) error {
	if strings.TrimSpace(req.Prompt) == "" && !req.HasInput() {
		return common.ErrorEmptyPrompt
	}
	return nil
}
