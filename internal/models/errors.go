package models

import "errors"

var (
	ErrInvalidItemID   = errors.New("invalid item id")
	ErrInvalidItemName = errors.New("invalid item name")
	ErrItemNotFound    = errors.New("item not found in catalog")
	ErrInvalidTimestep = errors.New("timestep must be 5m, 1h, 6h, or 24h")

	// ErrNoActiveWindow is the configuration error raised when no window
	// of the filter specification has anything marked for display.
	ErrNoActiveWindow = errors.New("filter specification shows no data")

	// ErrSeriesShape indicates mismatched parallel price/volume arrays,
	// an upstream data-shape bug rather than a per-item condition.
	ErrSeriesShape = errors.New("price and volume series lengths differ")
)
