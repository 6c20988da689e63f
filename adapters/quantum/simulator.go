package quantum

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"math"
	"math/cmplx"
	"math/rand"
	"sync"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
	"qrnglab/ports"
)

// Simulator is a statevector simulator of the Hadamard circuit,
// implementing ports.BitSource. Each Draw prepares |0...0⟩, applies H
// to every qubit and samples one measurement outcome from the squared
// amplitudes.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator whose measurement sampling is seeded
// from the operating system's entropy pool
func NewSimulator() (*Simulator, error) {
	var raw [8]byte
	if _, err := cryptorand.Read(raw[:]); err != nil {
		return nil, core.NewSourceError("quantum", err)
	}
	seed := int64(binary.LittleEndian.Uint64(raw[:]))
	return NewSimulatorWithRand(rand.New(rand.NewSource(seed))), nil
}

// NewSimulatorWithRand creates a simulator with an injected measurement
// RNG. Used by tests that need deterministic measurement outcomes.
func NewSimulatorWithRand(rng *rand.Rand) *Simulator {
	return &Simulator{rng: rng}
}

// Name identifies the source in logs and run records
func (s *Simulator) Name() string {
	return "quantum"
}

// Draw runs one shot of the n-qubit circuit and returns the measured
// bit string
func (s *Simulator) Draw(ctx context.Context, width qrng.Width) (ports.Bits, error) {
	if err := width.Validate(); err != nil {
		return ports.Bits{}, err
	}
	if err := ctx.Err(); err != nil {
		return ports.Bits{}, core.NewSourceError("quantum", err)
	}

	state := newStatevector(int(width))
	for q := 0; q < int(width); q++ {
		state.applyHadamard(q)
	}

	s.mu.Lock()
	outcome := state.measure(s.rng)
	s.mu.Unlock()

	return ports.Bits{Width: width, Value: outcome}, nil
}

// statevector holds the 2^n complex amplitudes of an n-qubit register
type statevector struct {
	qubits int
	amps   []complex128
}

// newStatevector prepares |0...0⟩
func newStatevector(qubits int) *statevector {
	amps := make([]complex128, 1<<uint(qubits))
	amps[0] = 1
	return &statevector{qubits: qubits, amps: amps}
}

// applyHadamard applies H to one qubit:
//
//	H = 1/√2 * [1  1]
//	           [1 -1]
//
// paired amplitudes differ only in the target qubit's bit.
func (s *statevector) applyHadamard(qubit int) {
	invSqrt2 := complex(1/math.Sqrt2, 0)
	bit := uint64(1) << uint(qubit)
	for i := uint64(0); i < uint64(len(s.amps)); i++ {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.amps[i], s.amps[j]
		s.amps[i] = (a0 + a1) * invSqrt2
		s.amps[j] = (a0 - a1) * invSqrt2
	}
}

// measure collapses the register, sampling one basis state with
// probability |amplitude|²
func (s *statevector) measure(rng *rand.Rand) uint64 {
	r := rng.Float64()
	cumulative := 0.0
	for i, amp := range s.amps {
		p := cmplx.Abs(amp)
		cumulative += p * p
		if r < cumulative {
			return uint64(i)
		}
	}
	// Float rounding can leave cumulative fractionally below 1
	return uint64(len(s.amps) - 1)
}
