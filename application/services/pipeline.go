package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kokuren333/BiimSlideMaker/application/ports/inbound"
	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/domain"
)

type pipeline struct {
	cfg           *config.Config
	logger        outbound.LoggerPort
	progress      outbound.ProgressSinkPort
	scriptLoader  outbound.ScriptLoaderPort
	rasterizer    outbound.RasterizerPort
	synthesizer   outbound.SynthesizerPort
	manifestStore outbound.ManifestStorePort
	dispatcher    inbound.SynthesisDispatcherPort
	renderer      inbound.SegmentRendererPort
	assembler     inbound.TimelineAssemblerPort
}

func NewPipeline(
	cfg *config.Config,
	logger outbound.LoggerPort,
	progress outbound.ProgressSinkPort,
	scriptLoader outbound.ScriptLoaderPort,
	rasterizer outbound.RasterizerPort,
	synthesizer outbound.SynthesizerPort,
	manifestStore outbound.ManifestStorePort,
	dispatcher inbound.SynthesisDispatcherPort,
	renderer inbound.SegmentRendererPort,
	assembler inbound.TimelineAssemblerPort) inbound.PipelinePort {
	return &pipeline{
		cfg:           cfg,
		logger:        logger,
		progress:      progress,
		scriptLoader:  scriptLoader,
		rasterizer:    rasterizer,
		synthesizer:   synthesizer,
		manifestStore: manifestStore,
		dispatcher:    dispatcher,
		renderer:      renderer,
		assembler:     assembler,
	}
}

// GenerateSlides rasterizes the deck into numbered slide images. A failed
// conversion is fatal to the whole run; nothing downstream can recover from
// missing pages.
func (p *pipeline) GenerateSlides(ctx context.Context) error {
	if p.cfg.Paths.PDF == "" {
		return &domain.ConfigError{Field: "paths.pdf", Reason: "not set"}
	}
	pages, err := p.rasterizer.Rasterize(ctx, p.cfg.Paths.PDF, p.cfg.Paths.SlideDir)
	if err != nil {
		return err
	}
	p.progress.Publish(outbound.ProgressEvent{
		Stage:     outbound.StageSlides,
		Completed: pages,
		Total:     pages,
		Message:   fmt.Sprintf("%d slides rasterized", pages),
	})
	return nil
}

// GenerateAudio loads the script, runs all pre-flight checks, synthesizes
// every unit and checkpoints the manifest. On partial synthesis failure the
// manifest is still saved so a rerun resumes from the finished units.
func (p *pipeline) GenerateAudio(ctx context.Context) (*domain.Manifest, error) {
	if err := p.cfg.ValidateScriptInputs(); err != nil {
		return nil, err
	}
	slides, err := p.scriptLoader.LoadSlides(p.cfg.Paths.ScriptFile)
	if err != nil {
		return nil, err
	}
	if err := p.attachSlideImages(slides); err != nil {
		return nil, err
	}

	if p.cfg.Engine.Prewarm {
		p.logger.InfoWithFields("initializing voice", map[string]interface{}{
			"voice_id": p.cfg.Engine.VoiceID,
		})
		if err := p.synthesizer.InitializeSpeaker(ctx, p.cfg.Engine.VoiceID); err != nil {
			p.logger.Error(err, "voice pre-initialization failed, continuing")
		}
	}

	manifest, synthErr := p.dispatcher.SynthesizeAll(ctx, slides)
	if manifest == nil {
		return nil, synthErr
	}
	if err := p.manifestStore.Save(manifest); err != nil {
		return nil, err
	}
	return manifest, synthErr
}

// AssembleVideo renders all segments from the persisted manifest and
// produces the final artifact. Assembly is refused while any unit remains
// failed; a rerun of the audio stage must clear them first.
func (p *pipeline) AssembleVideo(ctx context.Context) (string, error) {
	if err := p.cfg.ValidateRenderInputs(); err != nil {
		return "", err
	}
	manifest, err := p.manifestStore.Load()
	if err != nil {
		return "", err
	}
	if manifest == nil {
		return "", fmt.Errorf("no manifest at %s, run the audio stage first", p.cfg.Paths.ManifestPath)
	}

	if failed := manifest.FailedUnits(); len(failed) > 0 {
		ids := make(map[int]bool)
		ordered := make([]int, 0)
		for _, unit := range failed {
			if !ids[unit.SlideID] {
				ids[unit.SlideID] = true
				ordered = append(ordered, unit.SlideID)
			}
		}
		return "", fmt.Errorf("refusing assembly: synthesis failed for slide ids %v", ordered)
	}

	segments, err := p.renderer.RenderAll(ctx, manifest)
	if err != nil {
		return "", err
	}
	return p.assembler.Assemble(ctx, segments)
}

// RunAll chains the three stages.
func (p *pipeline) RunAll(ctx context.Context) (string, error) {
	if err := p.GenerateSlides(ctx); err != nil {
		return "", err
	}
	if _, err := p.GenerateAudio(ctx); err != nil {
		return "", err
	}
	return p.AssembleVideo(ctx)
}

// attachSlideImages binds each slide to its rasterized image and performs
// the fatal pre-flight checks: contiguous ids and an image on disk for every
// slide, before any synthesis work starts.
func (p *pipeline) attachSlideImages(slides []domain.Slide) error {
	probe := &domain.Manifest{}
	for i := range slides {
		slides[i].ImagePath = filepath.Join(p.cfg.Paths.SlideDir, domain.SlideImageName(slides[i].ID))
		probe.Entries = append(probe.Entries, domain.SlideManifestEntry{Slide: slides[i]})
	}
	if err := probe.Validate(); err != nil {
		return err
	}
	for _, slide := range slides {
		if _, err := os.Stat(slide.ImagePath); err != nil {
			return &domain.ConfigError{
				Field:  "paths.slide_dir",
				Reason: fmt.Sprintf("no image for slide id %d: %v", slide.ID, err),
			}
		}
	}
	return nil
}
