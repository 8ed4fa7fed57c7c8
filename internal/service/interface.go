package service

import "context"

// HistoryProvider returns the raw multi-decade daily series for a point.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, lat, lon float64) ([]byte, error)
	Name() string
}
