package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	datasetKey contextKey = "dataset"
	splitKey   contextKey = "split"
)

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithDataset annotates context with the dataset category being processed.
func WithDataset(ctx context.Context, category string) context.Context {
	if category == "" {
		return ctx
	}
	return context.WithValue(ctx, datasetKey, category)
}

// DatasetFromContext returns the dataset category if present.
func DatasetFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(datasetKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSplit annotates context with the corpus split (training/validation).
func WithSplit(ctx context.Context, split string) context.Context {
	if split == "" {
		return ctx
	}
	return context.WithValue(ctx, splitKey, split)
}

// SplitFromContext returns the corpus split if present.
func SplitFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(splitKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
