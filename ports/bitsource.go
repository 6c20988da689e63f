package ports

import (
	"context"
	"fmt"

	"qrnglab/domain/qrng"
)

// Bits is one n-bit draw from a bit source
type Bits struct {
	Width qrng.Width
	Value uint64
}

// Uint returns the unsigned decimal value of the bit string
func (b Bits) Uint() uint64 {
	return b.Value
}

// String renders the draw as a binary string of exactly Width bits
func (b Bits) String() string {
	return fmt.Sprintf("%0*b", int(b.Width), b.Value)
}

// BitSource produces uniformly random n-bit draws, each bit
// independently fair. Implementations: quantum statevector simulator,
// crypto/rand, and the seeded deterministic source used in tests.
// Draws must be independent of one another; a failed draw aborts the
// whole collection run.
type BitSource interface {
	// Name identifies the source in logs and run records
	Name() string

	// Draw produces one uniformly random draw of the given width
	Draw(ctx context.Context, width qrng.Width) (Bits, error)
}
