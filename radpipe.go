package radpipe

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lungmap/radpipe/core/classify"
	"github.com/lungmap/radpipe/core/features"
	"github.com/lungmap/radpipe/core/pattern"
	"github.com/lungmap/radpipe/core/pipeline"
	"github.com/lungmap/radpipe/core/radgraph"
	"github.com/lungmap/radpipe/core/topics"
	"github.com/lungmap/radpipe/helper"
	"github.com/lungmap/radpipe/model"
	"github.com/lungmap/radpipe/store"
)

// Pipe provides a unified interface to the full extraction pipeline
type Pipe struct {
	Config      *model.Config
	Parser      *radgraph.Parser
	Analyzer    *pattern.Analyzer
	Builder     *features.Builder
	Modeler     *topics.Modeler
	Trainer     *classify.Trainer
	Cohort      *store.CohortStore
	Annotations *store.AnnotationStore
	Features    *store.FeatureStore
	Pipeline    *pipeline.Pipeline // Optional embedding pipeline for topic modeling
	// Logging
	log *slog.Logger
}

// NewPipe creates a new Pipe instance with all components initialized
func NewPipe(config *model.Config) (*Pipe, error) {
	if config == nil {
		config = model.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate config", err)
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	trainer, err := classify.NewTrainer(config, logger)
	if err != nil {
		return nil, helper.NewError("create trainer", err)
	}

	return &Pipe{
		Config:      config,
		Parser:      radgraph.NewParser(),
		Analyzer:    pattern.NewAnalyzer(config.Vocabulary),
		Builder:     features.NewBuilder(logger),
		Modeler:     topics.NewModeler(config.NumTopics, config.TopicSeed),
		Trainer:     trainer,
		Cohort:      store.NewCohortStore(logger),
		Annotations: store.NewAnnotationStore(logger),
		Features:    store.NewFeatureStore(logger),
		log:         logger,
	}, nil
}

// SetPipeline sets the embedding pipeline used for topic modeling
func (p *Pipe) SetPipeline(pl *pipeline.Pipeline) {
	p.Pipeline = pl
}

// UseDefaultPipeline sets up the default report cleaning and embedding pipeline.
// This uses ReportCleaner over the FINDINGS and IMPRESSION sections and
// DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions)
func (p *Pipe) UseDefaultPipeline() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	p.Pipeline = pipeline.NewPipeline(pipeline.ReportCleaner(), embedder)
	return nil
}

// ExtractFeatures parses and analyzes every annotation and returns the
// reports and their feature records in input order. Documents are
// independent, so extraction fans out over Config.Workers goroutines; the
// first error encountered (by input order) is returned.
func (p *Pipe) ExtractFeatures(annotations []model.Annotation) ([]*model.Report, []*model.FeatureRecord, error) {
	reports := make([]*model.Report, len(annotations))
	records := make([]*model.FeatureRecord, len(annotations))
	errs := make([]error, len(annotations))

	workers := p.Config.Workers
	if workers > len(annotations) {
		workers = len(annotations)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				report, err := p.Parser.Parse(&annotations[i])
				if err != nil {
					errs[i] = err
					continue
				}
				analysis := p.Analyzer.Analyze(report)
				reports[i] = report
				records[i] = p.Builder.Build(report, analysis)
			}
		}()
	}
	for i := range annotations {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	p.log.Info("Extracted features",
		slog.Int("num_documents", len(records)),
		slog.Int("workers", workers))

	return reports, records, nil
}

// AssignTopics embeds every report and returns per-document topic
// probability vectors. Requires a pipeline with an embedder.
func (p *Pipe) AssignTopics(reports []*model.Report) (map[string][]float64, error) {
	if p.Pipeline == nil || p.Pipeline.Embedder == nil {
		return nil, helper.NewError("assign topics", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	docIDs := make([]string, len(reports))
	texts := make([]string, len(reports))
	for i, report := range reports {
		docIDs[i] = report.ID
		texts[i] = report.Text
	}

	embeddings, err := p.Pipeline.EmbedAll(texts)
	if err != nil {
		return nil, helper.NewError("embed reports", err)
	}

	assignments, err := p.Modeler.FitTransform(docIDs, embeddings)
	if err != nil {
		return nil, err
	}

	p.log.Info("Assigned topics",
		slog.Int("num_documents", len(assignments)),
		slog.Int("num_topics", p.Config.NumTopics))

	return assignments, nil
}

// Run executes the whole pipeline from the configured input files: load
// cohort and annotations, extract features, optionally assign topics,
// merge, train and evaluate, and write the feature matrix and run report.
func (p *Pipe) Run() (*model.RunReport, error) {
	runReport := &model.RunReport{
		RunID:      uuid.New(),
		StartedAt:  time.Now(),
		Classifier: p.Config.Classifier,
	}

	cohort, err := p.Cohort.Load(p.Config.CohortPath)
	if err != nil {
		return nil, err
	}
	runReport.NumCohortRows = len(cohort)

	annotations, err := p.Annotations.Load(p.Config.AnnotationsPath)
	if err != nil {
		return nil, err
	}

	reports, records, err := p.ExtractFeatures(annotations)
	if err != nil {
		return nil, err
	}
	runReport.NumDocuments = len(reports)

	numTopics := 0
	topicVectors := map[string][]float64{}
	if p.Pipeline != nil {
		topicVectors, err = p.AssignTopics(reports)
		if err != nil {
			return nil, err
		}
		numTopics = p.Config.NumTopics
	}

	runReport.Metadata = model.Metadata{
		"vocabulary":    p.Config.Vocabulary,
		"num_topics":    numTopics,
		"test_fraction": p.Config.TestFraction,
		"split_seed":    p.Config.SplitSeed,
		"workers":       p.Config.Workers,
	}

	merged := p.Builder.Merge(records, topicVectors, cohort)
	runReport.NumMerged = len(merged.Samples)
	runReport.DroppedFeatures = merged.DroppedFeatures
	runReport.DroppedCohort = merged.DroppedCohort

	result, err := p.Trainer.TrainAndEvaluate(merged.Samples)
	if err != nil {
		return nil, err
	}
	runReport.Result = result

	if p.Config.FeaturesPath != "" {
		if err := p.Features.WriteFeatures(p.Config.FeaturesPath, records, numTopics); err != nil {
			return nil, err
		}
	}

	runReport.FinishedAt = time.Now()
	if p.Config.ReportPath != "" {
		if err := p.Features.WriteReport(p.Config.ReportPath, runReport); err != nil {
			return nil, err
		}
	}

	return runReport, nil
}
