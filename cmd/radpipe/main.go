package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lungmap/radpipe"
	"github.com/lungmap/radpipe/model"
)

/*
Radpipe extracts per-document graph features from RadGraph-annotated
radiology reports, optionally assigns topic probabilities from report
embeddings, merges them with a patient cohort and trains a pneumonia
classifier on the result.

Usage:

	radpipe -cohort cohort.csv -annotations radgraph.json [flags]

The flags are:

	-config file
		Optional YAML configuration file. Flags override its values.
	-cohort file
		Cohort CSV with doc_id and label columns plus numeric covariates.
	-annotations file
		RadGraph export JSON keyed by document id.
	-features file
		Output CSV for the per-document feature matrix.
	-report file
		Output JSON for the run report (counts, drops, metrics).
	-classifier name
		"boosted" (gradient-boosted stumps) or "logistic".
	-topics
		Enable topic modeling. Downloads the embedding model on first use.
	-workers nr
		Per-document fan-out for parsing and analysis.
*/
func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	cohortPath := flag.String("cohort", "", "cohort CSV file")
	annotationsPath := flag.String("annotations", "", "RadGraph export JSON file")
	featuresPath := flag.String("features", "features.csv", "output feature CSV file")
	reportPath := flag.String("report", "run_report.json", "output run report JSON file")
	classifier := flag.String("classifier", "", "classifier: boosted or logistic")
	useTopics := flag.Bool("topics", false, "enable embedding-based topic modeling")
	workers := flag.Int("workers", 0, "per-document worker count")
	flag.Parse()

	var config *model.Config
	var err error
	if *configPath != "" {
		config, err = model.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		config = model.DefaultConfig()
	}

	if *cohortPath != "" {
		config.CohortPath = *cohortPath
	}
	if *annotationsPath != "" {
		config.AnnotationsPath = *annotationsPath
	}
	if *featuresPath != "" {
		config.FeaturesPath = *featuresPath
	}
	if *reportPath != "" {
		config.ReportPath = *reportPath
	}
	if *classifier != "" {
		config.Classifier = *classifier
	}
	if *workers > 0 {
		config.Workers = *workers
	}

	if config.CohortPath == "" || config.AnnotationsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	pipe, err := radpipe.NewPipe(config)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}

	if *useTopics {
		if err := pipe.UseDefaultPipeline(); err != nil {
			log.Fatalf("Failed to set up embedding pipeline: %v", err)
		}
	}

	runReport, err := pipe.Run()
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Printf("run %s: %d documents, %d merged samples (%d features dropped, %d cohort rows dropped)\n",
		runReport.RunID, runReport.NumDocuments, runReport.NumMerged,
		runReport.DroppedFeatures, runReport.DroppedCohort)
	fmt.Printf("%s classifier: accuracy=%.3f auc_roc=%.3f f1=%.3f (train=%d test=%d)\n",
		runReport.Classifier, runReport.Result.Accuracy, runReport.Result.AUC, runReport.Result.F1,
		runReport.Result.NumTrain, runReport.Result.NumTest)
}
