package quantum

import (
	"fmt"
	"strings"

	"qrnglab/domain/qrng"
)

// Circuit describes the random-number circuit for a given width:
// every qubit starts in |0⟩, gets one Hadamard gate, and is measured.
type Circuit struct {
	Width qrng.Width
}

// NewCircuit builds the circuit description for a width
func NewCircuit(width qrng.Width) (Circuit, error) {
	if err := width.Validate(); err != nil {
		return Circuit{}, err
	}
	return Circuit{Width: width}, nil
}

// Qubits returns the number of qubits in the circuit
func (c Circuit) Qubits() int {
	return int(c.Width)
}

// GateCount returns the number of Hadamard gates applied
func (c Circuit) GateCount() int {
	return int(c.Width)
}

// Describe renders a one-line-per-qubit sketch of the circuit for the UI
func (c Circuit) Describe() []string {
	lines := make([]string, c.Qubits())
	for q := 0; q < c.Qubits(); q++ {
		lines[q] = fmt.Sprintf("q%d: |0⟩ ─ H ─ M", q)
	}
	return lines
}

// Summary returns a short human-readable description
func (c Circuit) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d qubits, %d Hadamard gates, %d measurements", c.Qubits(), c.GateCount(), c.Qubits())
	return b.String()
}
