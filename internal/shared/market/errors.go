package market

import "errors"

// Sentinel errors shared by the computation core and the data layer.
// Callers wrap them with fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrInvalidInput is returned for series that are too short, bad indicator
	// parameters, or negative/NaN mining parameters. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlignment is returned when two series that must share timestamps do not.
	ErrAlignment = errors.New("series are not aligned")

	// ErrDataUnavailable is returned when upstream data could not be obtained
	// after the bounded retries and no stored data can serve the request.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrUnknownAsset is returned when an asset code is not in the registry.
	ErrUnknownAsset = errors.New("unknown asset")
)
