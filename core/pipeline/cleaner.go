package pipeline

import (
	"regexp"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/lungmap/radpipe/helper"
)

// sectionHeader matches an uppercase radiology section header at the start
// of a line, e.g. "FINDINGS:" or "FINAL REPORT".
var sectionHeader = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z /]{2,}):?\s*$|^\s*([A-Z][A-Z /]{2,}):`)

// deidPlaceholder matches MIMIC-style de-identification placeholders such
// as "___".
var deidPlaceholder = regexp.MustCompile(`_{2,}`)

// DefaultCleanSections are the report sections kept by ReportCleaner when
// none are specified.
var DefaultCleanSections = []string{"FINDINGS", "IMPRESSION"}

// ReportCleaner returns a CleanFunc that keeps only the named report
// sections, drops de-identification placeholders and renormalizes the text
// to sentence-segmented prose. If the report carries none of the named
// section headers, the whole text is kept.
func ReportCleaner(sections ...string) CleanFunc {
	if len(sections) == 0 {
		sections = DefaultCleanSections
	}
	keep := make(map[string]bool, len(sections))
	for _, section := range sections {
		keep[strings.ToUpper(section)] = true
	}

	return func(text string) (string, error) {
		text = deidPlaceholder.ReplaceAllString(text, " ")
		text = extractSections(text, keep)

		doc, err := prose.NewDocument(text,
			prose.WithTagging(false),
			prose.WithExtraction(false))
		if err != nil {
			return "", helper.NewError("segment report text", err)
		}

		var sentences []string
		for _, sentence := range doc.Sentences() {
			trimmed := strings.Join(strings.Fields(sentence.Text), " ")
			if trimmed != "" {
				sentences = append(sentences, trimmed)
			}
		}

		return strings.Join(sentences, " "), nil
	}
}

// extractSections returns the text of the kept sections, or the whole text
// when no kept header is present.
func extractSections(text string, keep map[string]bool) string {
	matches := sectionHeader.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var kept []string
	found := false
	for i, match := range matches {
		name := headerName(text, match)
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if keep[name] {
			found = true
			kept = append(kept, text[match[1]:end])
		}
	}

	if !found {
		return text
	}
	return strings.Join(kept, " ")
}

func headerName(text string, match []int) string {
	for _, group := range []int{2, 4} {
		if match[group] >= 0 {
			return strings.TrimSpace(text[match[group]:match[group+1]])
		}
	}
	return ""
}
