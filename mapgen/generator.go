// Package mapgen builds sample maps for the default tile set
package mapgen

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/marc/tile"
	"github.com/lixenwraith/marc/tilemap"
)

// MinSize is the smallest width or height Generate accepts
const MinSize = 3

type Point struct {
	X, Y int
}

type Config struct {
	Width, Height int

	// Braiding: 0.0 (tree, every corridor ends) to 1.0 (most dead ends opened into loops)
	Braiding float64

	// MarbleRatio is the chance an interior wall becomes destructible marble
	MarbleRatio float64

	// Coins on every remaining dead end
	Coins bool

	Seed int64 // 0 = time based
}

type Result struct {
	Map        *tilemap.Map
	Start, End Point
	DeadEnds   []Point
}

// Generate carves a maze with a recursive backtracker and paints it with
// DefaultTable ids: ground along the bottom row, wall or marble elsewhere,
// a flower at the start and a spawner at the far corner
func Generate(cfg Config) (Result, error) {
	if cfg.Width < MinSize {
		return Result{}, &tilemap.InvalidDimensionError{Axis: "width", Value: cfg.Width}
	}
	if cfg.Height < MinSize {
		return Result{}, &tilemap.InvalidDimensionError{Axis: "height", Value: cfg.Height}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Carve on the largest odd grid that fits; the spare column/row stays wall
	rows, cols := roundOdd(cfg.Height), roundOdd(cfg.Width)
	grid := make([][]bool, rows)
	for y := range grid {
		grid[y] = make([]bool, cols)
		for x := range grid[y] {
			grid[y][x] = wall
		}
	}

	start := Point{1, 1}
	end := Point{cols - 2, rows - 2}
	carve(grid, start, rng)
	if cfg.Braiding > 0 {
		braid(grid, cfg.Braiding, rng)
	}

	m, err := tilemap.New(cfg.Width, cfg.Height)
	if err != nil {
		return Result{}, err
	}
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			open := y < rows && x < cols && grid[y][x] == passage
			m.Set(x, y, paint(open, x, y, cols, rows, cfg, rng))
		}
	}

	deadEnds := findDeadEnds(grid, start, end)
	if cfg.Coins {
		for _, p := range deadEnds {
			m.Set(p.X, p.Y, Coin)
		}
	}
	m.Set(start.X, start.Y, Flower)
	if end != start {
		m.Set(end.X, end.Y, Spawner)
	}

	return Result{Map: m, Start: start, End: end, DeadEnds: deadEnds}, nil
}

func paint(open bool, x, y, cols, rows int, cfg Config, rng *rand.Rand) tile.ID {
	switch {
	case open:
		return Empty
	case y == cfg.Height-1:
		return Ground
	case x == 0 || y == 0 || x >= cols-1 || y >= rows-1:
		return Wall
	case cfg.MarbleRatio > 0 && rng.Float64() < cfg.MarbleRatio:
		return Marble
	}
	return Wall
}

const (
	wall    = true
	passage = false
)

var (
	jumps = []Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	steps = []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
)

// carve produces a uniform spanning tree over odd cells
func carve(grid [][]bool, start Point, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	stack := []Point{start}
	grid[start.Y][start.X] = passage

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]Point, 0, 4)

		for _, d := range jumps {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && grid[ny][nx] == wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = passage
		next := Point{curr.X + d.X, curr.Y + d.Y}
		grid[next.Y][next.X] = passage
		stack = append(stack, next)
	}
}

// braid opens dead ends into loops with the given probability
// Walls whose removal would leave a 2x2 open block or an isolated pillar are kept
func braid(grid [][]bool, probability float64, rng *rand.Rand) {
	rows, cols := len(grid), len(grid[0])

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if grid[y][x] == wall || exits(grid, x, y) != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]Point, 0, 4)
			for _, d := range jumps {
				nx, ny := x+d.X, y+d.Y
				wx, wy := x+d.X/2, y+d.Y/2
				if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
					continue
				}
				if grid[ny][nx] == passage && grid[wy][wx] == wall && safeToOpen(grid, wx, wy) {
					candidates = append(candidates, Point{wx, wy})
				}
			}

			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				grid[c.Y][c.X] = passage
			}
		}
	}
}

func safeToOpen(grid [][]bool, x, y int) bool {
	rows, cols := len(grid), len(grid[0])
	open := func(tx, ty int) bool {
		return tx >= 0 && tx < cols && ty >= 0 && ty < rows && grid[ty][tx] == passage
	}

	// No plazas
	for _, q := range [][3]Point{
		{{-1, -1}, {0, -1}, {-1, 0}},
		{{0, -1}, {1, -1}, {1, 0}},
		{{-1, 0}, {-1, 1}, {0, 1}},
		{{1, 0}, {0, 1}, {1, 1}},
	} {
		if open(x+q[0].X, y+q[0].Y) && open(x+q[1].X, y+q[1].Y) && open(x+q[2].X, y+q[2].Y) {
			return false
		}
	}

	// No pillars
	for _, d := range steps {
		nx, ny := x+d.X, y+d.Y
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows || grid[ny][nx] == passage {
			continue
		}
		connected := false
		for _, d2 := range steps {
			nnx, nny := nx+d2.X, ny+d2.Y
			if nnx == x && nny == y {
				continue
			}
			if nnx >= 0 && nnx < cols && nny >= 0 && nny < rows && grid[nny][nnx] == wall {
				connected = true
				break
			}
		}
		if !connected {
			return false
		}
	}
	return true
}

func exits(grid [][]bool, x, y int) int {
	n := 0
	for _, d := range steps {
		if grid[y+d.Y][x+d.X] == passage {
			n++
		}
	}
	return n
}

// findDeadEnds lists room cells with a single exit, excluding start and end
func findDeadEnds(grid [][]bool, start, end Point) []Point {
	var out []Point
	for y := 1; y < len(grid)-1; y += 2 {
		for x := 1; x < len(grid[0])-1; x += 2 {
			p := Point{x, y}
			if p == start || p == end || grid[y][x] == wall {
				continue
			}
			if exits(grid, x, y) == 1 {
				out = append(out, p)
			}
		}
	}
	return out
}

func roundOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}
