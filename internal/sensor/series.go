package sensor

// DefaultSeriesSize is the number of heart-rate points the chart keeps.
const DefaultSeriesSize = 10

// LabelFormat is the time layout used for chart point labels.
const LabelFormat = "15:04:05"

// Point is one labelled chart sample.
type Point struct {
	Label string
	Value float64
}

// Series is a fixed-capacity rolling window of chart points. When full,
// Push evicts the oldest point. Series is a value-semantics ring buffer:
// copying a Series and pushing to the copy does not affect the original.
type Series struct {
	data  []Point
	head  int
	count int
}

// NewSeries creates an empty series with the given capacity.
func NewSeries(size int) Series {
	if size <= 0 {
		size = DefaultSeriesSize
	}
	return Series{data: make([]Point, size)}
}

// Push appends a point, evicting the oldest one when at capacity.
// It returns the receiver's successor so that callers holding a copied
// Series never observe the push through shared backing storage.
func (s Series) Push(label string, value float64) Series {
	if len(s.data) == 0 {
		s = NewSeries(DefaultSeriesSize)
	}

	data := make([]Point, len(s.data))
	copy(data, s.data)

	size := len(data)
	data[s.head] = Point{Label: label, Value: value}
	s.data = data
	s.head = (s.head + 1) % size
	if s.count < size {
		s.count++
	}
	return s
}

// Len returns the number of points stored.
func (s Series) Len() int {
	return s.count
}

// Cap returns the series capacity.
func (s Series) Cap() int {
	return len(s.data)
}

// Points returns all points in insertion order (oldest first).
func (s Series) Points() []Point {
	if s.count == 0 {
		return nil
	}

	size := len(s.data)
	result := make([]Point, s.count)

	// head points to the next write position; the oldest stored point sits
	// count slots behind it.
	start := (s.head - s.count + size) % size
	for i := 0; i < s.count; i++ {
		result[i] = s.data[(start+i)%size]
	}
	return result
}

// Values returns just the point values, oldest first.
func (s Series) Values() []float64 {
	points := s.Points()
	if points == nil {
		return nil
	}
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

// Last returns the most recent point.
func (s Series) Last() (Point, bool) {
	if s.count == 0 {
		return Point{}, false
	}
	size := len(s.data)
	return s.data[(s.head-1+size)%size], true
}

// Reset returns an empty series with the same capacity.
func (s Series) Reset() Series {
	return NewSeries(len(s.data))
}
