package monitor

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// brailleDots maps [row][col] to the bit offset within a braille cell.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// chartRange returns plotting bounds for data with a little headroom so a
// flat line sits mid-chart instead of on the floor.
func chartRange(data []float64) (minVal, maxVal float64) {
	if len(data) == 0 {
		return 0, 1
	}

	minVal, maxVal = data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	pad := (maxVal - minVal) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(maxVal)*0.1, 1)
	}
	return minVal - pad, maxVal + pad
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderBrailleChart plots data as a line chart of braille dots, one dot per
// point at its height. Each character holds 2 points horizontally and 4
// levels vertically. Data shorter than the chart is right-aligned so the
// newest point is always at the right edge.
func RenderBrailleChart(data []float64, width, height int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal := chartRange(data)
	totalDots := height * 4
	targetPoints := width * 2

	points := data
	if len(data) > targetPoints {
		points = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	horizOffset := targetPoints - len(points)
	if horizOffset < 0 {
		horizOffset = 0
	}

	prevDot := -1
	for i, val := range points {
		dot := clampInt(int(normalizeValue(val, minVal, maxVal)*float64(totalDots-1)), totalDots-1)
		charCol := (i + horizOffset) / 2
		subCol := (i + horizOffset) % 2

		// Fill the vertical gap to the previous point so steep changes stay connected.
		lo, hi := dot, dot
		if prevDot >= 0 {
			lo = min(dot, prevDot)
			hi = max(dot, prevDot)
		}
		for d := lo; d <= hi; d++ {
			row := height - 1 - d/4
			subRow := 3 - d%4
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
		prevDot = dot
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, 0, height)
	for _, row := range grid {
		lines = append(lines, style.Render(string(row)))
	}
	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline of percentages using
// block characters. Values are scaled to a fixed 0-100 range.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	points := data
	if len(data) > width {
		points = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range points {
		normalized := normalizeValue(val, 0, 100)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}
	return result.String()
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}
	return result
}
