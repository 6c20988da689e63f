package cryptorand

import (
	"context"
	"crypto/rand"
	"encoding/binary"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/ports"
)

// Source is a bit source backed by crypto/rand. A vetted stand-in for
// the quantum simulator: each bit is independently fair, so the
// statistical pipeline downstream behaves identically.
type Source struct{}

// NewSource creates a crypto/rand bit source
func NewSource() *Source {
	return &Source{}
}

// Name identifies the source in logs and run records
func (s *Source) Name() string {
	return "crypto"
}

// Draw reads one uniformly random n-bit value from the OS entropy pool
func (s *Source) Draw(ctx context.Context, width qrng.Width) (ports.Bits, error) {
	if err := width.Validate(); err != nil {
		return ports.Bits{}, err
	}
	if err := ctx.Err(); err != nil {
		return ports.Bits{}, core.NewSourceError("crypto", err)
	}

	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return ports.Bits{}, core.NewSourceError("crypto", err)
	}

	mask := uint64(width.States() - 1)
	value := binary.LittleEndian.Uint64(raw[:]) & mask
	return ports.Bits{Width: width, Value: value}, nil
}
