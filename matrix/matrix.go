// Package matrix lays a 2-D label tensor out as a dense matrix so it can be
// inspected with gonum.
package matrix

import (
	"errors"
	"slices"

	"github.com/chewxy/math32"
	"github.com/sw965/hebb/quantity"
	"github.com/sw965/hebb/space"
	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/mat"
)

var ErrEmpty = errors.New("行列エラー: ラベルがありません")

func NewZeros(rows, cols int) blas32.General {
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   make([]float32, rows*cols),
	}
}

func At(gen blas32.General, row, col int) int {
	return row*gen.Stride + col
}

// Labels returns every row and column label of w in ascending order.
func Labels(w *space.Space) []string {
	set := map[string]struct{}{}
	for _, row := range w.Keys() {
		set[row] = struct{}{}
		if v, ok := w.Lookup(row); ok {
			if sub, ok := v.(*space.Space); ok {
				for _, col := range sub.Keys() {
					set[col] = struct{}{}
				}
			}
		}
	}
	labels := maps.Keys(set)
	slices.Sort(labels)
	return labels
}

// walkは存在する要素だけを訪れる。読み込みでラベルを作らないようにLookupを使う。
func walk(w *space.Space, labels []string, f func(i, j int, q quantity.Quantity)) {
	for i, row := range labels {
		v, ok := w.Lookup(row)
		if !ok {
			continue
		}
		sub, ok := v.(*space.Space)
		if !ok {
			continue
		}
		for j, col := range labels {
			if e, ok := sub.Lookup(col); ok {
				f(i, j, space.ToQuantity(e))
			}
		}
	}
}

// Dense returns the given pole of w[row][col] for the labels in order. Absent
// entries are zero and w is not modified.
func Dense(w *space.Space, labels []string, pole quantity.Pole) (*mat.Dense, error) {
	n := len(labels)
	if n == 0 {
		return nil, ErrEmpty
	}
	d := mat.NewDense(n, n, nil)
	walk(w, labels, func(i, j int, q quantity.Quantity) {
		d.Set(i, j, q.Pole(pole))
	})
	return d, nil
}

// General is Dense in float32 storage.
func General(w *space.Space, labels []string, pole quantity.Pole) (blas32.General, error) {
	n := len(labels)
	if n == 0 {
		return blas32.General{}, ErrEmpty
	}
	gen := NewZeros(n, n)
	walk(w, labels, func(i, j int, q quantity.Quantity) {
		gen.Data[At(gen, i, j)] = float32(q.Pole(pole))
	})
	return gen, nil
}

func MaxAbs(gen blas32.General) float32 {
	var y float32
	for r := 0; r < gen.Rows; r++ {
		for c := 0; c < gen.Cols; c++ {
			y = math32.Max(y, math32.Abs(gen.Data[At(gen, r, c)]))
		}
	}
	return y
}

// Frobenius returns the Frobenius norm of d.
func Frobenius(d *mat.Dense) float64 {
	return mat.Norm(d, 2)
}
