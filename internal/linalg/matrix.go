// Package linalg provides dense complex matrix primitives sized for
// few-qubit unitary simulation: construction, arithmetic, Kronecker
// products and Hermitian matrix exponentials.
package linalg

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a dense square complex matrix in row-major order.
type Matrix struct {
	n    int
	data []complex128
}

// Zeros returns an n x n matrix of zeros.
func Zeros(n int) Matrix {
	return Matrix{n: n, data: make([]complex128, n*n)}
}

// Identity returns the n x n identity matrix.
func Identity(n int) Matrix {
	m := Zeros(n)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m
}

// FromSlice builds an n x n matrix from row-major values.
// It panics if len(v) != n*n; matrix shapes are programmer invariants,
// not runtime inputs.
func FromSlice(n int, v []complex128) Matrix {
	if len(v) != n*n {
		panic(fmt.Sprintf("linalg: FromSlice needs %d values, got %d", n*n, len(v)))
	}
	m := Zeros(n)
	copy(m.data, v)
	return m
}

// Dim returns the matrix dimension n.
func (m Matrix) Dim() int { return m.n }

// At returns the element at row i, column j.
func (m Matrix) At(i, j int) complex128 { return m.data[i*m.n+j] }

// Set assigns the element at row i, column j.
func (m Matrix) Set(i, j int, v complex128) { m.data[i*m.n+j] = v }

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	c := Zeros(m.n)
	copy(c.data, m.data)
	return c
}

// Mul returns the matrix product a*b.
func Mul(a, b Matrix) Matrix {
	if a.n != b.n {
		panic(fmt.Sprintf("linalg: Mul dimension mismatch %d vs %d", a.n, b.n))
	}
	n := a.n
	c := Zeros(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			aik := a.data[i*n+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				c.data[i*n+j] += aik * b.data[k*n+j]
			}
		}
	}
	return c
}

// Add returns the matrix sum a+b.
func Add(a, b Matrix) Matrix {
	if a.n != b.n {
		panic(fmt.Sprintf("linalg: Add dimension mismatch %d vs %d", a.n, b.n))
	}
	c := Zeros(a.n)
	for i := range c.data {
		c.data[i] = a.data[i] + b.data[i]
	}
	return c
}

// Scale returns z*a.
func Scale(z complex128, a Matrix) Matrix {
	c := Zeros(a.n)
	for i := range a.data {
		c.data[i] = z * a.data[i]
	}
	return c
}

// AddScaled accumulates z*a into m in place.
func (m Matrix) AddScaled(z complex128, a Matrix) {
	if a.n != m.n {
		panic(fmt.Sprintf("linalg: AddScaled dimension mismatch %d vs %d", m.n, a.n))
	}
	for i := range m.data {
		m.data[i] += z * a.data[i]
	}
}

// Dagger returns the conjugate transpose of a.
func Dagger(a Matrix) Matrix {
	n := a.n
	c := Zeros(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c.data[j*n+i] = cmplx.Conj(a.data[i*n+j])
		}
	}
	return c
}

// Conj returns the element-wise complex conjugate of a.
func Conj(a Matrix) Matrix {
	c := Zeros(a.n)
	for i := range a.data {
		c.data[i] = cmplx.Conj(a.data[i])
	}
	return c
}

// Kron returns the Kronecker product a ⊗ b.
func Kron(a, b Matrix) Matrix {
	n := a.n * b.n
	c := Zeros(n)
	for i := 0; i < a.n; i++ {
		for j := 0; j < a.n; j++ {
			aij := a.data[i*a.n+j]
			if aij == 0 {
				continue
			}
			for k := 0; k < b.n; k++ {
				for l := 0; l < b.n; l++ {
					c.data[(i*b.n+k)*n+(j*b.n+l)] = aij * b.data[k*b.n+l]
				}
			}
		}
	}
	return c
}

// Trace returns the trace of a.
func Trace(a Matrix) complex128 {
	var t complex128
	for i := 0; i < a.n; i++ {
		t += a.data[i*a.n+i]
	}
	return t
}

// EqualApprox reports whether a and b agree element-wise within tol.
func EqualApprox(a, b Matrix, tol float64) bool {
	if a.n != b.n {
		return false
	}
	for i := range a.data {
		if cmplx.Abs(a.data[i]-b.data[i]) > tol {
			return false
		}
	}
	return true
}

// MaxAbsDiff returns the largest element-wise distance between a and b.
func MaxAbsDiff(a, b Matrix) float64 {
	if a.n != b.n {
		return math.Inf(1)
	}
	var d float64
	for i := range a.data {
		if v := cmplx.Abs(a.data[i] - b.data[i]); v > d {
			d = v
		}
	}
	return d
}

// IsUnitary reports whether a†a is the identity within tol.
func IsUnitary(a Matrix, tol float64) bool {
	return EqualApprox(Mul(Dagger(a), a), Identity(a.n), tol)
}
