package tui

import "slices"

// Series holds the most recent samples of one dashboard metric, oldest
// first. Percent-valued series are plotted by sparkline and plotBraille.
type Series struct {
	values []float64
	limit  int
}

// NewSeries returns a series keeping at most limit samples.
func NewSeries(limit int) *Series {
	return &Series{limit: max(1, limit)}
}

// Add appends v and drops the oldest samples beyond the limit.
func (s *Series) Add(v float64) {
	s.values = append(s.values, v)
	s.trim()
}

func (s *Series) trim() {
	if over := len(s.values) - s.limit; over > 0 {
		s.values = slices.Delete(s.values, 0, over)
	}
}

// Len returns the number of samples held.
func (s *Series) Len() int { return len(s.values) }

// Limit returns the maximum number of samples.
func (s *Series) Limit() int { return s.limit }

// Last returns the newest sample, or 0 when empty.
func (s *Series) Last() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

// Values returns a copy of the samples.
func (s *Series) Values() []float64 { return slices.Clone(s.values) }

// SetLimit changes the limit, keeping the newest samples.
func (s *Series) SetLimit(limit int) {
	s.limit = max(1, limit)
	s.trim()
}

// Clear drops every sample.
func (s *Series) Clear() { s.values = s.values[:0] }

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// level maps a percentage to 0..n-1, clamping out-of-range values.
func level(pct float64, n int) int {
	pct = min(100, max(0, pct))
	return min(n-1, int(pct/100*float64(n-1)))
}

// sparkline renders percentages as one block character each.
func sparkline(values []float64) string {
	out := make([]rune, len(values))
	for i, v := range values {
		out[i] = sparkLevels[level(v, len(sparkLevels))]
	}
	return string(out)
}

// Braille cells are 2 dots wide and 4 dots tall. dotBit[row][col] is the
// bit added to U+2800 for that dot.
var dotBit = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// plotBraille draws percentages as a dot plot of rows lines of width
// braille cells. The newest sample sits in the rightmost dot column and
// older samples that do not fit are dropped.
func plotBraille(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}
	cols, height := width*2, rows*4
	if len(values) > cols {
		values = values[len(values)-cols:]
	}
	offset := cols - len(values)

	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = slices.Repeat([]rune{0x2800}, width)
	}
	for i, v := range values {
		x := offset + i
		y := height - 1 - level(v, height)
		cells[y/4][x/2] |= dotBit[y%4][x%2]
	}

	lines := make([]string, rows)
	for r, row := range cells {
		lines[r] = string(row)
	}
	return lines
}
