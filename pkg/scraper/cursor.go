package scraper

// Cursor is the exclusive lower time bound of the next fetch window. It only
// moves forward: either to the highest created_utc seen in a batch, or by one
// second when a batch fails to advance time, so a stalled source cannot loop
// the scraper forever.
type Cursor struct {
	pos int64
	end int64
}

// NewCursor creates a cursor at start with a fixed end boundary
func NewCursor(start, end int64) *Cursor {
	return &Cursor{pos: start, end: end}
}

// Pos returns the current cursor position in epoch seconds
func (c *Cursor) Pos() int64 {
	return c.pos
}

// End returns the fixed end boundary
func (c *Cursor) End() int64 {
	return c.end
}

// Done reports whether the cursor has reached the end boundary
func (c *Cursor) Done() bool {
	return c.pos >= c.end
}

// Advance moves the cursor to lastSeen if that is forward progress, otherwise
// bumps it by one second
func (c *Cursor) Advance(lastSeen int64) {
	if lastSeen > c.pos {
		c.pos = lastSeen
	} else {
		c.pos++
	}
}
