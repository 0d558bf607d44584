package scale

// Limits bound the work a single encode or decode may do.
type Limits struct {
	// MaxDepth caps type nesting, which only recursive types can exceed.
	MaxDepth int
	// MaxSequenceLength caps the total count of zero-byte elements one
	// decode may produce, summed over every sequence and array it reads.
	// Other lengths are bounded by the input size.
	MaxSequenceLength int
}

// Default limits.
const (
	DefaultMaxDepth          = 128
	DefaultMaxSequenceLength = 1 << 20
)

// DefaultLimits returns the limits used by NewEncoder and NewDecoder.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:          DefaultMaxDepth,
		MaxSequenceLength: DefaultMaxSequenceLength,
	}
}

func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxSequenceLength <= 0 {
		l.MaxSequenceLength = DefaultMaxSequenceLength
	}
	return l
}
