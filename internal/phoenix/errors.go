package phoenix

import "errors"

var (
	// ErrHeaderDecode wraps any failure to decode the fixed market header or
	// to reconcile the body with the declared layout.
	ErrHeaderDecode = errors.New("phoenix: malformed market header")

	// ErrUnsupportedLayout means the header's size params match no known
	// market layout. Unknown layouts are rejected, never guessed.
	ErrUnsupportedLayout = errors.New("phoenix: market configuration not found")

	// ErrInvalidMintPair means a quote or swap was requested for a mint pair
	// other than the market's own base/quote.
	ErrInvalidMintPair = errors.New("phoenix: mint pair does not match market")

	// ErrArithmeticOverflow means a quote result does not fit in 64 bits.
	// Surfaced instead of wrapping, since a wrapped value would be a
	// materially wrong quote.
	ErrArithmeticOverflow = errors.New("phoenix: quote amount overflows uint64")

	// ErrMissingAccount means an update map had no bytes for the market's own
	// account. The prior ladder is left untouched.
	ErrMissingAccount = errors.New("phoenix: market account missing from update")
)
