// Package archive records optimization runs so they can be listed and
// inspected after the fact.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
)

// Store persists optimization runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run v1alpha1.OptimizationRun) error
	GetRun(ctx context.Context, id string) (v1alpha1.OptimizationRun, bool, error)
	ListRuns(ctx context.Context) ([]v1alpha1.OptimizationRun, error)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// CloseIfSupported closes store when it holds resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

func encodeRun(run v1alpha1.OptimizationRun) ([]byte, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("encode run %s: %w", run.ID, err)
	}
	return payload, nil
}

func decodeRun(payload []byte) (v1alpha1.OptimizationRun, error) {
	var run v1alpha1.OptimizationRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return v1alpha1.OptimizationRun{}, err
	}
	return run, nil
}

// sortRuns orders runs by start time, then id.
func sortRuns(runs []v1alpha1.OptimizationRun) {
	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].Status.StartedAt.Equal(runs[j].Status.StartedAt) {
			return runs[i].Status.StartedAt.Before(runs[j].Status.StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
