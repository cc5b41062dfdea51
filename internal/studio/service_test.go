package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/genstudio/internal/backend"
	"github.com/dmitrijs2005/genstudio/internal/common"
	"github.com/dmitrijs2005/genstudio/internal/config"
	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

// fakeBackend is a hand-rolled backend.Client with preset behavior.
type fakeBackend struct {
	mu          sync.Mutex
	imageCalls  []backend.ImageRequest
	imagenCalls []backend.ImageRequest

	// imageFn decides the outcome of a GenerateImage call; when nil, a
	// per-seed payload is returned so tests can verify positional order.
	imageFn func(r backend.ImageRequest) (*backend.ImageResult, error)

	// delayByIndex staggers completion so lower-index calls finish last.
	delayBySeed map[int64]time.Duration

	startJob    *backend.VideoJob
	startErr    error
	pollResults []*backend.VideoJob
	pollErr     error
	pollCount   int

	downloadData []byte
	downloadErr  error
}

// seedOf unwraps a request's seed; -1 marks an unseeded call.
func seedOf(r backend.ImageRequest) int64 {
	if r.Seed == nil {
		return -1
	}
	return *r.Seed
}

func (f *fakeBackend) GenerateImage(ctx context.Context, r backend.ImageRequest) (*backend.ImageResult, error) {
	f.mu.Lock()
	f.imageCalls = append(f.imageCalls, r)
	delay := f.delayBySeed[seedOf(r)]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if f.imageFn != nil {
		return f.imageFn(r)
	}
	return &backend.ImageResult{
		Data:     []byte(fmt.Sprintf("img-%d", seedOf(r))),
		MIMEType: "image/png",
	}, nil
}

func (f *fakeBackend) GenerateImages(ctx context.Context, r backend.ImageRequest) (*backend.ImageResult, error) {
	f.mu.Lock()
	f.imagenCalls = append(f.imagenCalls, r)
	f.mu.Unlock()
	return &backend.ImageResult{Data: []byte("imagen"), MIMEType: "image/png"}, nil
}

func (f *fakeBackend) StartVideoJob(ctx context.Context, r backend.VideoRequest) (*backend.VideoJob, error) {
	return f.startJob, f.startErr
}

func (f *fakeBackend) PollVideoJob(ctx context.Context, job *backend.VideoJob) (*backend.VideoJob, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	res := f.pollResults[f.pollCount]
	f.pollCount++
	return res, nil
}

func (f *fakeBackend) DownloadVideo(ctx context.Context, uri string) ([]byte, error) {
	return f.downloadData, f.downloadErr
}

func (f *fakeBackend) AuthenticatedURL(uri string) string {
	return uri + "?key=test"
}

var _ backend.Client = (*fakeBackend)(nil)

func newTestService(fb *fakeBackend) *Service {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.PollInterval = time.Millisecond
	return NewService(fb, cfg, logging.NewDefault(slog.LevelError))
}

func imageRequest(prompt string, seed int64, batch int) *models.GenerationRequest {
	return &models.GenerationRequest{
		Mode:      models.ModeImage,
		Prompt:    prompt,
		Style:     "watercolor",
		Seed:      models.FixedSeed(seed),
		BatchSize: batch,
	}
}

func TestGenerateBatch_SeedsAndPositionalOrder(t *testing.T) {
	fb := &fakeBackend{
		// earlier items finish last, so completion order is reversed
		delayBySeed: map[int64]time.Duration{
			100: 40 * time.Millisecond,
			101: 30 * time.Millisecond,
			102: 20 * time.Millisecond,
			103: 0,
		},
	}
	s := newTestService(fb)

	got, err := s.GenerateBatch(context.Background(), imageRequest("a red fox", 100, 4))
	require.NoError(t, err)
	require.Len(t, got, 4)

	for i, a := range got {
		assert.Equal(t, int64(100+i), a.Seed, "results must be positionally stable")

		data, _, err := media.DecodeDataURL(a.MediaURL)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("img-%d", 100+i), string(data))

		assert.Equal(t, "a red fox", a.Prompt, "artifact stores the undecorated prompt")
		assert.NotEmpty(t, a.ID)
	}

	// all four calls carried the decorated prompt
	require.Len(t, fb.imageCalls, 4)
	for _, call := range fb.imageCalls {
		assert.Equal(t, "watercolor style: a red fox", call.Prompt)
	}
}

func TestGenerateBatch_ZeroSeedIsForwarded(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	got, err := s.GenerateBatch(context.Background(), imageRequest("a red fox", 0, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(0), got[0].Seed)
	assert.Equal(t, int64(1), got[1].Seed)

	sent := map[int64]bool{}
	for _, r := range fb.imageCalls {
		require.NotNil(t, r.Seed, "every batch call carries an explicit seed")
		sent[*r.Seed] = true
	}
	assert.True(t, sent[0], "seed 0 is sent as a real seed, not dropped")
	assert.True(t, sent[1])
}

func TestGenerateBatch_DrawsRandomBaseSeed(t *testing.T) {
	origDraw := drawBaseSeed
	defer func() { drawBaseSeed = origDraw }()
	drawBaseSeed = func() int64 { return 777 }

	fb := &fakeBackend{}
	s := newTestService(fb)

	req := imageRequest("a red fox", 0, 2)
	req.Seed = models.ParseSeed(-1)

	got, err := s.GenerateBatch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(777), got[0].Seed)
	assert.Equal(t, int64(778), got[1].Seed)
}

func TestGenerateBatch_EmptyPromptRejectedBeforeAnyCall(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	_, err := s.GenerateBatch(context.Background(), imageRequest("   ", 1, 1))
	require.ErrorIs(t, err, common.ErrorEmptyPrompt)
	assert.Empty(t, fb.imageCalls, "precondition errors must not reach the backend")
}

func TestGenerateBatch_InputImageSatisfiesPromptPrecondition(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	req := imageRequest("", 1, 1)
	req.InputImage = []byte{0x89}
	req.InputMIME = "image/png"

	got, err := s.GenerateBatch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestGenerateBatch_BatchSizeBounds(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	for _, n := range []int{0, 5, -1} {
		_, err := s.GenerateBatch(context.Background(), imageRequest("a red fox", 1, n))
		require.ErrorIs(t, err, common.ErrorBatchSize, "batch size %d", n)
	}
}

func TestGenerateBatch_AllOrNothing(t *testing.T) {
	fb := &fakeBackend{
		imageFn: func(r backend.ImageRequest) (*backend.ImageResult, error) {
			if seedOf(r) == 101 {
				return nil, errors.New("boom")
			}
			return &backend.ImageResult{Data: []byte("ok"), MIMEType: "image/png"}, nil
		},
	}
	s := newTestService(fb)

	got, err := s.GenerateBatch(context.Background(), imageRequest("a red fox", 100, 3))
	require.Error(t, err, "any failing item fails the whole batch")
	assert.Nil(t, got, "no partial batch is returned")
}

func TestGenerateBatch_ClassifiesTextResponses(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "false success", text: "Here is your image!", wantErr: common.ErrorFalseSuccess},
		{name: "refusal", text: "I can't create that.", wantErr: common.ErrorRefused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{
				imageFn: func(r backend.ImageRequest) (*backend.ImageResult, error) {
					return &backend.ImageResult{Text: tt.text}, nil
				},
			}
			s := newTestService(fb)

			_, err := s.GenerateBatch(context.Background(), imageRequest("a red fox", 1, 1))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateBatch_RoutesImagenModels(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	req := imageRequest("a red fox", 1, 1)
	req.Model = "imagen-4.0-generate-001"

	_, err := s.GenerateBatch(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, fb.imageCalls)
	require.Len(t, fb.imagenCalls, 1)
}

func TestGenerateBatch_CountsCalls(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	_, err := s.GenerateBatch(context.Background(), imageRequest("a red fox", 1, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Calls())
}

func TestDeriveVariations_SeedOffsets(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	src := &models.Artifact{ID: "src", Kind: models.ModeImage, Seed: 500}
	got, err := s.DeriveVariations(context.Background(), src, imageRequest("a red fox", 0, 1))
	require.NoError(t, err)
	require.Len(t, got, VariationCount)

	for i, a := range got {
		assert.Equal(t, int64(500+VariationSeedOffset+i), a.Seed)
	}
}

func TestDeriveVariations_RejectsNonImageSource(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	src := &models.Artifact{ID: "src", Kind: models.ModeVideo, Seed: 500}
	_, err := s.DeriveVariations(context.Background(), src, imageRequest("a red fox", 0, 1))
	require.ErrorIs(t, err, common.ErrorNotAnImage)
}

func TestUpscale_ReturnsNewArtifact(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	src := &models.Artifact{
		ID:       "src",
		Kind:     models.ModeImage,
		MediaURL: media.DataURL([]byte("original"), "image/png"),
		Prompt:   "a red fox",
		Style:    "watercolor",
		Seed:     9,
	}

	got, err := s.Upscale(context.Background(), src)
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, got.ID, "upscale must mint a new artifact id")
	assert.Equal(t, "a red fox", got.Prompt)
	assert.Equal(t, "watercolor", got.Style)
	assert.Equal(t, int64(9), got.Seed)

	require.Len(t, fb.imageCalls, 1)
	assert.Equal(t, []byte("original"), fb.imageCalls[0].InputImage, "source bytes are re-submitted")
	assert.Contains(t, fb.imageCalls[0].Prompt, "higher resolution")

	// the source artifact is untouched
	assert.Equal(t, media.DataURL([]byte("original"), "image/png"), src.MediaURL)
}

func TestUpscale_RejectsNonEmbeddedMedia(t *testing.T) {
	fb := &fakeBackend{}
	s := newTestService(fb)

	src := &models.Artifact{ID: "src", Kind: models.ModeImage, MediaURL: "https://example.com/img.png"}
	_, err := s.Upscale(context.Background(), src)
	require.Error(t, err)
	assert.Empty(t, fb.imageCalls)
}

func videoRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Mode:   models.ModeVideo,
		Prompt: "a drifting boat",
		Seed:   models.FixedSeed(3),
	}
}

func TestGenerateVideo_PollsUntilDone(t *testing.T) {
	var sleeps int
	origSleep := sleep
	defer func() { sleep = origSleep }()
	sleep = func(time.Duration) { sleeps++ }

	notDone := &backend.VideoJob{Name: "op1"}
	fb := &fakeBackend{
		startJob: notDone,
		pollResults: []*backend.VideoJob{
			notDone, notDone, notDone,
			{Name: "op1", Done: true, VideoBytes: []byte("mp4"), MIMEType: "video/mp4"},
		},
	}
	s := newTestService(fb)

	got, err := s.GenerateVideo(context.Background(), videoRequest())
	require.NoError(t, err)

	assert.Equal(t, 4, fb.pollCount, "three not-done polls plus the final done poll")
	assert.Equal(t, 4, sleeps, "each poll is separated by the fixed interval")
	assert.Equal(t, media.DataURL([]byte("mp4"), "video/mp4"), got.MediaURL)
	assert.Equal(t, models.ModeVideo, got.Kind)
	assert.Nil(t, s.ActiveJob(), "job slot is cleared after completion")
}

func TestGenerateVideo_DownloadsRemoteMedia(t *testing.T) {
	fb := &fakeBackend{
		startJob:     &backend.VideoJob{Name: "op1", Done: true, VideoURI: "https://host/v.mp4"},
		downloadData: []byte("bytes"),
	}
	s := newTestService(fb)

	got, err := s.GenerateVideo(context.Background(), videoRequest())
	require.NoError(t, err)
	assert.Equal(t, media.DataURL([]byte("bytes"), "video/mp4"), got.MediaURL)
}

func TestGenerateVideo_FallsBackToAuthenticatedURL(t *testing.T) {
	fb := &fakeBackend{
		startJob:    &backend.VideoJob{Name: "op1", Done: true, VideoURI: "https://host/v.mp4"},
		downloadErr: errors.New("cross-origin fetch blocked"),
	}
	s := newTestService(fb)

	got, err := s.GenerateVideo(context.Background(), videoRequest())
	require.NoError(t, err, "a failed media fetch degrades, it does not fail the operation")
	assert.Equal(t, "https://host/v.mp4?key=test", got.MediaURL)
}

func TestGenerateVideo_PollErrorSurfaces(t *testing.T) {
	origSleep := sleep
	defer func() { sleep = origSleep }()
	sleep = func(time.Duration) {}

	fb := &fakeBackend{
		startJob: &backend.VideoJob{Name: "op1"},
		pollErr:  errors.New("backend exploded"),
	}
	s := newTestService(fb)

	_, err := s.GenerateVideo(context.Background(), videoRequest())
	require.Error(t, err)
	assert.Nil(t, s.ActiveJob())
}

func TestGenerateBatch_VideoModeProducesSingleArtifact(t *testing.T) {
	fb := &fakeBackend{
		startJob: &backend.VideoJob{Name: "op1", Done: true, VideoBytes: []byte("mp4")},
	}
	s := newTestService(fb)

	req := videoRequest()
	req.BatchSize = 4 // ignored in video mode

	got, err := s.GenerateBatch(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.ModeVideo, got[0].Kind)
}
