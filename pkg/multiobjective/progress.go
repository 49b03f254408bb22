package multiobjective

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

// progressObserver logs one line per completed generation.
func progressObserver(logger logr.Logger, generations int) framework.Observer {
	return func(_ context.Context, stats framework.GenerationStats) {
		logger.V(3).Info("Generation complete",
			"generation", fmt.Sprintf("%d/%d", stats.Generation, generations),
			"progress", fmt.Sprintf("%.0f%%", 100*float64(stats.Generation)/float64(generations)),
			"evaluations", humanize.Comma(int64(stats.Evaluations)),
			"front", stats.FrontSize,
			"feasible", stats.Feasible,
			"elapsed", stats.Elapsed.Round(time.Millisecond),
		)
	}
}
