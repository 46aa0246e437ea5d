package domain

import "context"

// SignalGenerator produces a scored trade candidate for a symbol. The mock
// implementation scores synthetic inputs; a real model can replace it
// without touching any other component.
type SignalGenerator interface {
	Generate(ctx context.Context, symbol string) (*Candidate, error)
}

// AssetFilter vets an asset identifier and symbol for scam markers.
// Implementations own the append-only blocked counter.
type AssetFilter interface {
	// Vet evaluates an asset; a positive verdict increments the blocked
	// counter. Returns ErrUnsupportedAsset for malformed identifiers.
	Vet(ctx context.Context, assetID, symbol string) (*Verdict, error)

	// BlockedCount returns how many assets have been rejected so far
	BlockedCount() int64
}
