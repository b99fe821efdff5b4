package quantum

import (
	"fmt"

	"github.com/qpulse/qpulse/internal/linalg"
)

// Embed lifts a unitary acting on the listed qubits into the full
// 2^numQubits register space. The unitary's dimension must be
// 2^len(qubits); qubits are register indices with qubit 0 as the
// leftmost tensor factor.
func Embed(u linalg.Matrix, qubits []int, numQubits int) linalg.Matrix {
	k := len(qubits)
	if u.Dim() != 1<<k {
		panic(fmt.Sprintf("quantum: Embed got %dx%d unitary for %d qubits", u.Dim(), u.Dim(), k))
	}
	n := 1 << numQubits
	full := linalg.Zeros(n)

	// Bit position of qubit q in a basis index.
	shift := func(q int) int { return numQubits - 1 - q }

	restMask := n - 1
	for _, q := range qubits {
		restMask &^= 1 << shift(q)
	}

	sub := func(i int) int {
		s := 0
		for _, q := range qubits {
			s = s<<1 | (i>>shift(q))&1
		}
		return s
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i&restMask != j&restMask {
				continue
			}
			full.Set(i, j, u.At(sub(i), sub(j)))
		}
	}
	return full
}

// LogicalBitstring reorders a measured bit string from physical to
// logical qubit order using an inverse-layout permutation: logical bit
// i is read from physical position perm[i]. A nil permutation leaves
// the string unchanged.
func LogicalBitstring(physical string, perm []int) string {
	if perm == nil {
		return physical
	}
	out := make([]byte, len(physical))
	for i := range out {
		p := i
		if i < len(perm) {
			p = perm[i]
		}
		out[i] = physical[p]
	}
	return string(out)
}
