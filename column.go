package silo

import "unsafe"

// column is one archetype's byte-addressed vector for a single data
// component. Row r's bytes live at data[r*size : (r+1)*size]; length in
// bytes always equals len(entities)*size, enforced by every mutator below.
type column struct {
	data []byte
	size uintptr
}

func newColumn(size uintptr) *column {
	return &column{size: size}
}

// len returns the number of rows currently stored.
func (c *column) len() int {
	if c.size == 0 {
		return 0
	}
	return len(c.data) / int(c.size)
}

// grow appends one uninitialized row, returning its index.
func (c *column) grow() int {
	row := c.len()
	c.data = append(c.data, make([]byte, c.size)...)
	return row
}

// write copies size(c) bytes from src into row r.
func (c *column) write(r int, src []byte) {
	off := uintptr(r) * c.size
	copy(c.data[off:off+c.size], src)
}

// read returns a slice over row r's bytes, valid until the next mutation.
func (c *column) read(r int) []byte {
	off := uintptr(r) * c.size
	return c.data[off : off+c.size]
}

// swapRemove overwrites row r with the last row, then truncates by one
// row. The caller is responsible for updating the entity index entry of
// whichever entity occupied the last row.
func (c *column) swapRemove(r int) {
	last := c.len() - 1
	if r != last {
		copy(c.read(r), c.read(last))
	}
	c.data = c.data[:uintptr(last)*c.size]
}

// columnAt reinterprets row r of c as a *T. Callers must only do this for
// the column whose size/layout matches T; component handles enforce that.
func columnAt[T any](c *column, r int) *T {
	off := uintptr(r) * c.size
	return (*T)(unsafe.Pointer(&c.data[off]))
}

// columnSlice exposes all rows of c as a contiguous []T, the typed slice
// view query results expose for bulk iteration.
func columnSlice[T any](c *column) []T {
	n := c.len()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&c.data[0])), n)
}
