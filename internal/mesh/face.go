package mesh

import (
	"fmt"
	"strings"
)

// Face is one planar polygon. Indices follow the OBJ convention: 1-based, negative values count
// from the tail of the referenced array.
type Face struct {
	Indices        []int
	NormalIndices  []int
	TextureIndices []int
}

// Key returns a string identifying the face structurally, two faces with the same key are equal.
func (f Face) Key() string {
	var b strings.Builder
	writeInts(&b, f.Indices)
	b.WriteByte('|')
	writeInts(&b, f.NormalIndices)
	b.WriteByte('|')
	writeInts(&b, f.TextureIndices)
	return b.String()
}

// Clone returns a face with its own index slices.
func (f Face) Clone() Face {
	return Face{
		Indices:        cloneInts(f.Indices),
		NormalIndices:  cloneInts(f.NormalIndices),
		TextureIndices: cloneInts(f.TextureIndices),
	}
}

func writeInts(b *strings.Builder, values []int) {
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d", v)
	}
}

func cloneInts(values []int) []int {
	if values == nil {
		return nil
	}
	return append(make([]int, 0, len(values)), values...)
}
