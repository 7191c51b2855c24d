package insight

import (
	"trendxl/internal/domain/content"
)

// Engine defines the interface for the trend analytics and recommendation
// engine. Analyze is a pure function of its inputs: it performs no I/O,
// holds no state between calls, and is safe to invoke concurrently for
// independent inputs. It never fails for data-quality reasons; degenerate
// input yields a structurally valid, possibly empty, result.
type Engine interface {
	Analyze(records []content.Record, actx Context) AnalysisResult
}
