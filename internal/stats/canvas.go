package stats

import "math"

// canvas is a grid of braille cells, each holding a 2x4 dot matrix.
type canvas struct {
	width, height int
	cells         [][]uint8
	pattern       int
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{width: width, height: height, cells: cells}
}

// polyline plots one value per cell column and joins consecutive points.
func (c *canvas) polyline(values []float64, scale yScale, pattern int) {
	c.pattern = pattern % len(dashPatterns)
	dotRows := c.height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, dotRow(v, scale, dotRows)
		if prevX < 0 {
			c.dot(px, py)
		} else {
			c.line(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
	}
}

func dotRow(v float64, scale yScale, rows int) int {
	if rows <= 1 || scale.hi == scale.lo {
		return 0
	}
	pos := (v - scale.lo) / (scale.hi - scale.lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return max(0, min(row, rows-1))
}

func (c *canvas) dot(x, y int) {
	p := dashPatterns[c.pattern]
	if p.period > 1 && x%p.period >= p.on {
		return
	}
	cx, cy := x/2, y/4
	if x < 0 || y < 0 || cy >= c.height || cx >= c.width {
		return
	}
	c.cells[cy][cx] |= dotBit(x%2, y%4)
}

// line draws with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		c.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// dotBit maps a dot position inside a cell to its braille bit.
func dotBit(col, row int) uint8 {
	if row == 3 {
		return 0x40 << col
	}
	return 1 << (row + 3*col)
}

func composeCell(layers []*canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, l := range layers {
		m := l.cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
