package domain

// AssetKind classifies a directory entry as crypto or fiat.
type AssetKind string

const (
	AssetKindCrypto AssetKind = "crypto"
	AssetKindFiat   AssetKind = "fiat"
)

// Asset is one entry of the merged currency directory.
// Code is the uppercased Coinbase identifier. MinSize is the minimum trade
// size as the decimal string returned by the API; no arithmetic is done on it.
type Asset struct {
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Kind    AssetKind `json:"kind"`
	MinSize string    `json:"minSize,omitempty"`
}

// RateMap maps an uppercased asset code to its exchange rate expressed as
// units of that asset per one unit of the base currency. Every value is a
// finite number; non-parseable source values never enter the map.
type RateMap map[string]float64
