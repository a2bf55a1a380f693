package generator

import "strings"

// OutputBuffer accumulates chunks in arrival order.
type OutputBuffer struct {
	b      strings.Builder
	chunks int
}

func (o *OutputBuffer) Append(chunk string) {
	o.b.WriteString(chunk)
	o.chunks++
}

func (o *OutputBuffer) Reset() {
	o.b.Reset()
	o.chunks = 0
}

func (o *OutputBuffer) String() string { return o.b.String() }

// Chunks returns how many chunks have been appended since the last reset.
func (o *OutputBuffer) Chunks() int { return o.chunks }
