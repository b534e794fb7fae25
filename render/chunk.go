package render

import "image"

// DefaultChunkSize is the tile edge used when Options.ChunkSize is zero.
const DefaultChunkSize = 512

// Chunk is one tile of the output grid. Index is its position in the
// partition, Row and Col its tile coordinates and Rect its pixel area in
// global image coordinates.
type Chunk struct {
	Index    int
	Row, Col int
	Rect     image.Rectangle
}

// Inflated returns the chunk area grown by margin pixels on every side.
func (c Chunk) Inflated(margin int) image.Rectangle {
	return c.Rect.Inset(-margin)
}

// Units returns the progress units the chunk accounts for.
func (c Chunk) Units(margin int) uint64 {
	r := c.Inflated(margin)
	return uint64(r.Dx()) * uint64(r.Dy())
}

// Partition splits a width x height image into size x size chunks, row by
// row. Chunks on the right and bottom edges are smaller if the image is not
// divisible. The result never overlaps and covers every pixel exactly once.
func Partition(width, height, size int) []Chunk {
	if size <= 0 {
		panic("chunk size must be positive")
	}

	var chunks []Chunk
	for row, oy := 0, 0; oy < height; row, oy = row+1, oy+size {
		th := min(size, height-oy)
		for col, ox := 0, 0; ox < width; col, ox = col+1, ox+size {
			tw := min(size, width-ox)
			chunks = append(chunks, Chunk{
				Index: len(chunks),
				Row:   row,
				Col:   col,
				Rect:  image.Rect(ox, oy, ox+tw, oy+th),
			})
		}
	}
	return chunks
}

// TotalUnits is the progress denominator: the sum of every chunk's area
// inflated by margin.
func TotalUnits(chunks []Chunk, margin int) uint64 {
	var total uint64
	for _, c := range chunks {
		total += c.Units(margin)
	}
	return total
}

// share splits total into parts nearly equal pieces and returns piece i.
// Summing share(total, parts, i) for i in [0, parts) yields exactly total.
func share(total uint64, parts, i int) uint64 {
	p := uint64(parts)
	k := uint64(i)
	return total*(k+1)/p - total*k/p
}
