package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReportText = `FINAL REPORT
EXAMINATION: Chest radiograph

INDICATION: ___ year old woman with cough.

FINDINGS:
There is a focal consolidation in the right lower lobe.
No pleural effusion is seen.

IMPRESSION:
Findings concerning for pneumonia.`

func TestReportCleaner(t *testing.T) {
	t.Run("Keeps only findings and impression by default", func(t *testing.T) {
		clean := ReportCleaner()
		cleaned, err := clean(sampleReportText)
		require.NoError(t, err)

		assert.Contains(t, cleaned, "focal consolidation in the right lower lobe")
		assert.Contains(t, cleaned, "concerning for pneumonia")
		assert.NotContains(t, cleaned, "Chest radiograph")
		assert.NotContains(t, cleaned, "year old woman")
	})

	t.Run("Drops de-identification placeholders", func(t *testing.T) {
		clean := ReportCleaner("INDICATION")
		cleaned, err := clean(sampleReportText)
		require.NoError(t, err)

		assert.NotContains(t, cleaned, "___")
		assert.Contains(t, cleaned, "year old woman with cough")
	})

	t.Run("Custom section selection", func(t *testing.T) {
		clean := ReportCleaner("IMPRESSION")
		cleaned, err := clean(sampleReportText)
		require.NoError(t, err)

		assert.Contains(t, cleaned, "concerning for pneumonia")
		assert.NotContains(t, cleaned, "focal consolidation")
	})

	t.Run("Section names are case-insensitive", func(t *testing.T) {
		clean := ReportCleaner("impression")
		cleaned, err := clean(sampleReportText)
		require.NoError(t, err)

		assert.Contains(t, cleaned, "concerning for pneumonia")
	})

	t.Run("Falls back to the whole text without kept headers", func(t *testing.T) {
		clean := ReportCleaner()
		cleaned, err := clean("Focal opacity in the left upper lobe. No effusion.")
		require.NoError(t, err)

		assert.Contains(t, cleaned, "Focal opacity in the left upper lobe")
		assert.Contains(t, cleaned, "No effusion")
	})

	t.Run("Collapses whitespace into single-spaced prose", func(t *testing.T) {
		clean := ReportCleaner()
		cleaned, err := clean(sampleReportText)
		require.NoError(t, err)

		assert.NotContains(t, cleaned, "\n")
		assert.NotContains(t, cleaned, "  ")
	})
}
