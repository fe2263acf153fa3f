package main

import (
	"fmt"
	"log"

	"github.com/lungmap/radpipe"
	"github.com/lungmap/radpipe/model"
)

// A small RadGraph-style annotation: a chest film with a focal
// consolidation in the right lower lobe, suggestive of pneumonia.
var sampleAnnotation = model.Annotation{
	DocID: "s50000001",
	Text:  "focal consolidation in the right lower lobe suggestive of pneumonia",
	Entities: map[string]model.AnnotationEntity{
		"1": {Tokens: "focal", Label: "OBS-DP", StartIx: 0, EndIx: 0,
			Relations: [][2]string{{"modify", "2"}}},
		"2": {Tokens: "consolidation", Label: "OBS-DP", StartIx: 1, EndIx: 1,
			Relations: [][2]string{{"located_at", "3"}, {"suggestive_of", "4"}}},
		"3": {Tokens: "right lower lobe", Label: "ANAT-DP", StartIx: 4, EndIx: 6},
		"4": {Tokens: "pneumonia", Label: "OBS-U", StartIx: 9, EndIx: 9},
	},
}

func main() {
	pipe, err := radpipe.NewPipe(nil)
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}

	report, err := pipe.Parser.Parse(&sampleAnnotation)
	if err != nil {
		log.Fatalf("Failed to parse annotation: %v", err)
	}

	fmt.Printf("Parsed %d entities and %d relations from report %s\n",
		len(report.Entities), len(report.Relations), report.ID)

	analysis := pipe.Analyzer.Analyze(report)

	fmt.Println("\nFindings:")
	for finding, sites := range analysis.Bundle.Findings {
		fmt.Printf("  %s -> %v\n", finding, sites)
	}

	fmt.Println("\nModifiers:")
	for target, modifiers := range analysis.Bundle.Modifiers {
		fmt.Printf("  %s <- %v\n", target, modifiers)
	}

	fmt.Println("\nSuggestive patterns:")
	for _, pair := range analysis.Bundle.Suggestive {
		fmt.Printf("  %s suggestive of %s\n", pair.Source, pair.Target)
	}

	fmt.Println("\nCertainty histogram:")
	for certainty, count := range analysis.Histogram {
		fmt.Printf("  %s: %d\n", certainty, count)
	}

	record := pipe.Builder.Build(report, analysis)
	fmt.Printf("\nFeature vector for %s: %v\n", record.DocID, record.Vector())
}
