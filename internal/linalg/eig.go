package linalg

import (
	"math"
	"math/cmplx"
)

const (
	jacobiMaxSweeps = 100
	jacobiTol       = 1e-14
)

// EigHermitian diagonalizes a Hermitian matrix with the cyclic Jacobi
// method. It returns the real eigenvalues and the unitary matrix whose
// columns are the corresponding eigenvectors, so that
// h = v * diag(vals) * v†. The input is not modified.
//
// The caller is responsible for passing a Hermitian matrix; the
// algorithm only reads the upper triangle magnitudes and assumes
// h[j][i] = conj(h[i][j]).
func EigHermitian(h Matrix) ([]float64, Matrix) {
	n := h.n
	a := h.Clone()
	v := Identity(n)

	for sweep := 0; sweep < jacobiMaxSweeps; sweep++ {
		off := 0.0
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				off += cmplx.Abs(a.At(p, q))
			}
		}
		if off < jacobiTol {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				apq := a.At(p, q)
				if cmplx.Abs(apq) < jacobiTol {
					continue
				}
				app := real(a.At(p, p))
				aqq := real(a.At(q, q))
				// Factor out the phase of the pivot so the remaining
				// 2x2 block is real symmetric, then rotate it away.
				phi := cmplx.Phase(apq)
				beta := cmplx.Abs(apq)
				theta := 0.5 * math.Atan2(2*beta, app-aqq)
				c := complex(math.Cos(theta), 0)
				s := complex(math.Sin(theta), 0)
				ephi := cmplx.Exp(complex(0, -phi))

				// Column rotation: A <- A*U with U restricted to (p,q);
				// U[p][p]=c, U[p][q]=-s, U[q][p]=e^{-iφ}s, U[q][q]=e^{-iφ}c.
				for i := 0; i < n; i++ {
					aip := a.At(i, p)
					aiq := a.At(i, q)
					a.Set(i, p, aip*c+aiq*ephi*s)
					a.Set(i, q, -aip*s+aiq*ephi*c)
				}
				// Row rotation: A <- U†*A.
				for j := 0; j < n; j++ {
					apj := a.At(p, j)
					aqj := a.At(q, j)
					a.Set(p, j, c*apj+cmplx.Conj(ephi)*s*aqj)
					a.Set(q, j, -s*apj+cmplx.Conj(ephi)*c*aqj)
				}
				// Accumulate eigenvectors: V <- V*U.
				for i := 0; i < n; i++ {
					vip := v.At(i, p)
					viq := v.At(i, q)
					v.Set(i, p, vip*c+viq*ephi*s)
					v.Set(i, q, -vip*s+viq*ephi*c)
				}
			}
		}
	}

	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = real(a.At(i, i))
	}
	return vals, v
}

// ExpMinusIH returns the unitary exp(-i*h) of a Hermitian matrix h,
// computed exactly through its eigendecomposition.
func ExpMinusIH(h Matrix) Matrix {
	n := h.n
	vals, v := EigHermitian(h)
	// v * diag(e^{-iλ}) * v†
	u := Zeros(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += v.At(i, k) * cmplx.Exp(complex(0, -vals[k])) * cmplx.Conj(v.At(j, k))
			}
			u.Set(i, j, sum)
		}
	}
	return u
}
