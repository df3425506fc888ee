package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/panjf2000/ants/v2"

	"github.com/kokuren333/BiimSlideMaker/application/ports/inbound"
	"github.com/kokuren333/BiimSlideMaker/application/ports/outbound"
	"github.com/kokuren333/BiimSlideMaker/application/services"
	"github.com/kokuren333/BiimSlideMaker/config"
	"github.com/kokuren333/BiimSlideMaker/infrastructure/adapters"
)

// app holds the wired pipeline: one shared worker pool, zerolog behind the
// logger port, progress flowing through a channel sink into the log.
type app struct {
	cfg         *config.Config
	logger      outbound.LoggerPort
	pool        *ants.Pool
	pipeline    inbound.PipelinePort
	synthesizer outbound.SynthesizerPort
	events      chan outbound.ProgressEvent
}

func newApp(opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := adapters.NewConsoleZerologWrapper()

	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}
	// Room for the synthesis executors plus the channel-merge and feeder
	// goroutines they need.
	pool, err := ants.NewPool(cfg.Synthesis.Workers*3+8, ants.WithPanicHandler(panicHandler))
	if err != nil {
		return nil, err
	}

	fetcher := adapters.NewContentFetcher(logger)
	synthesizer := adapters.NewVoicevoxClient(fetcher, &cfg.Engine)
	prober := adapters.NewWavProber()
	splitter := services.NewScriptSplitter(cfg.Script.Terminators)
	scriptLoader := adapters.NewYamlScriptLoader(logger)
	manifestStore := adapters.NewJSONManifestStore(logger, cfg.Paths.ManifestPath)

	encoder, err := adapters.NewFFmpegEncoder(logger, cfg)
	if err != nil {
		pool.Release()
		return nil, err
	}
	rasterizer, err := adapters.NewPDFRasterizer(logger, cfg)
	if err != nil {
		pool.Release()
		return nil, err
	}

	events := make(chan outbound.ProgressEvent, 64)
	progress := adapters.NewChannelProgressSink(events)
	go func() {
		for event := range events {
			logger.InfoWithFields(event.Message, map[string]interface{}{
				"stage":     string(event.Stage),
				"completed": event.Completed,
				"total":     event.Total,
			})
		}
	}()

	dispatcher := services.NewSynthesisDispatcher(logger, splitter, synthesizer, prober, pool, progress, cfg)
	renderer := services.NewSegmentRenderer(logger, encoder, pool, progress, cfg)
	assembler := services.NewTimelineAssembler(logger, encoder, cfg)
	pipeline := services.NewPipeline(cfg, logger, progress, scriptLoader, rasterizer, synthesizer,
		manifestStore, dispatcher, renderer, assembler)

	return &app{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		pipeline:    pipeline,
		synthesizer: synthesizer,
		events:      events,
	}, nil
}

func (a *app) Close() {
	close(a.events)
	a.pool.Release()
}

// signalContext cancels on Ctrl-C or SIGTERM so in-flight synthesis and
// encoder calls stop issuing new work.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
