package vision

import (
	"context"
	"io"
)

// AnalysisPrompt is the shared prompt used by all vision adapters.
const AnalysisPrompt = `List every food item you can see in this refrigerator/freezer/pantry photo.
For each item provide: name, how many units there are (a whole number),
and the printed best-before or use-by date if one is legible (YYYY-MM-DD),
otherwise leave the date empty. Respond in plain text, one item per line,
format: name | count | date`

type VisionAnalyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string) (*AnalysisResult, error)
}

type AnalysisResult struct {
	Items       []DetectedItem
	RawResponse string
}

// DetectedItem is one line of model output, still as free text.
type DetectedItem struct {
	Name     string
	Quantity string
	Expiry   string
}
