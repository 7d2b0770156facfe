package physics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCirclesOverlapIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		x1, y1, r1 := rng.Float64()*50, rng.Float64()*50, rng.Float64()*5
		x2, y2, r2 := rng.Float64()*50, rng.Float64()*50, rng.Float64()*5
		assert.Equal(t,
			CirclesOverlap(x1, y1, r1, x2, y2, r2),
			CirclesOverlap(x2, y2, r2, x1, y1, r1))
	}
}

func TestCirclesOverlapIsStrict(t *testing.T) {
	assert.False(t, CirclesOverlap(0, 0, 1, 3, 0, 2), "touching circles do not hit")
	assert.True(t, CirclesOverlap(0, 0, 1, 2.999, 0, 2))
	assert.Equal(t, 5.0, Distance(0, 0, 3, 4))
}

func TestInRect(t *testing.T) {
	assert.True(t, InRect(0, 0, 10, 10))
	assert.True(t, InRect(10, 10, 10, 10))
	assert.False(t, InRect(-0.1, 5, 10, 10))
	assert.False(t, InRect(5, 10.1, 10, 10))
}

func TestGridFindsEveryOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	type circle struct{ x, y, r float64 }
	var pts []circle
	for i := 0; i < 200; i++ {
		pts = append(pts, circle{rng.Float64()*120 - 10, rng.Float64()*120 - 30, rng.Float64() * 3})
	}
	g := NewSpatialGrid(0, -30, 100, 130, 6)
	for i, p := range pts {
		g.Insert(p.x, p.y, i)
	}

	for i, p := range pts {
		var brute, grid []int
		for j, q := range pts {
			if CirclesOverlap(p.x, p.y, p.r, q.x, q.y, q.r) {
				brute = append(brute, j)
			}
		}
		g.QueryAround(p.x, p.y, func(j int) bool {
			q := pts[j]
			if CirclesOverlap(p.x, p.y, p.r, q.x, q.y, q.r) {
				grid = append(grid, j)
			}
			return false
		})
		sort.Ints(grid)
		require.Equal(t, brute, grid, "circle %d", i)
	}
}

func TestGridResetReusesCells(t *testing.T) {
	g := NewSpatialGrid(0, 0, 10, 10, 5)
	g.Insert(1, 1, 0)
	g.Reset(10, 10, 10)
	assert.Equal(t, 10.0, g.CellSize())

	visited := 0
	g.QueryAround(1, 1, func(int) bool {
		visited++
		return false
	})
	assert.Zero(t, visited)
}
