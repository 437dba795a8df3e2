package lsa

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// oversamples is the number of extra random directions sampled beyond k.
const oversamples = 10

// randomizedSVD returns the top k right singular vectors of the sparse
// matrix formed by rows (n x cols), as k rows of length cols.
//
// It follows the randomized range finder of Halko, Martinsson and Tropp:
// sample the range with a seeded Gaussian matrix, refine it with power
// iterations re-orthonormalised by QR, then take an exact thin SVD of the
// small projected matrix. The caller guarantees 1 <= k <= min(n, cols).
// Components are sign-normalised so their largest absolute loading is
// positive, which keeps the result stable across runs.
func randomizedSVD(rows []sparseVec, cols, k int, seed uint64, iters int) [][]float64 {
	n := len(rows)
	l := min(k+oversamples, n, cols)

	rng := rand.New(rand.NewPCG(seed, seed))
	omega := mat.NewDense(cols, l, nil)
	for i := 0; i < cols; i++ {
		for j := 0; j < l; j++ {
			omega.Set(i, j, rng.NormFloat64())
		}
	}

	y := mulSparse(rows, omega)
	for i := 0; i < iters; i++ {
		q := orthonormalize(y)
		z := orthonormalize(mulSparseT(rows, cols, q))
		y = mulSparse(rows, z)
	}
	q := orthonormalize(y)

	// (Q^T X)^T is cols x l, tall enough for a thin SVD.
	bt := mulSparseT(rows, cols, q)
	var svd mat.SVD
	if !svd.Factorize(bt, mat.SVDThin) {
		return nil
	}
	var u mat.Dense
	svd.UTo(&u)

	components := make([][]float64, k)
	for j := 0; j < k; j++ {
		c := mat.Col(nil, j, &u)
		flipSign(c)
		components[j] = c
	}
	return components
}

// orthonormalize returns an orthonormal basis for the columns of a (r x c, r >= c).
func orthonormalize(a *mat.Dense) *mat.Dense {
	r, c := a.Dims()
	var qr mat.QR
	qr.Factorize(a)
	var q mat.Dense
	qr.QTo(&q)
	return mat.DenseCopyOf(q.Slice(0, r, 0, c))
}

// mulSparse computes X * d for X given by rows.
func mulSparse(rows []sparseVec, d *mat.Dense) *mat.Dense {
	_, l := d.Dims()
	out := mat.NewDense(len(rows), l, nil)
	for i, row := range rows {
		dst := out.RawRowView(i)
		for p, col := range row.idx {
			w := row.val[p]
			src := d.RawRowView(col)
			for j := range dst {
				dst[j] += w * src[j]
			}
		}
	}
	return out
}

// mulSparseT computes X^T * d for X given by rows with cols columns.
func mulSparseT(rows []sparseVec, cols int, d *mat.Dense) *mat.Dense {
	_, l := d.Dims()
	out := mat.NewDense(cols, l, nil)
	for i, row := range rows {
		src := d.RawRowView(i)
		for p, col := range row.idx {
			w := row.val[p]
			dst := out.RawRowView(col)
			for j := range dst {
				dst[j] += w * src[j]
			}
		}
	}
	return out
}

// flipSign negates v in place when its largest absolute entry is negative.
func flipSign(v []float64) {
	best := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	if len(v) > 0 && v[best] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}
