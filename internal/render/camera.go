package render

// Camera translates between arena cells and screen coordinates.
// Cell X is multiplied by 2 because emoji occupy 2 terminal columns.
type Camera struct {
	OffsetX int // screen column of cell (0, 0)
	OffsetY int // screen row of cell (0, 0)
}

// CellToScreen converts arena cell (cx, cy) to screen (sx, sy).
func (c Camera) CellToScreen(cx, cy int) (sx, sy int) {
	return c.OffsetX + cx*2, c.OffsetY + cy
}

// ScreenToCell converts screen (sx, sy) to arena coordinates.
func (c Camera) ScreenToCell(sx, sy int) (int, int) {
	return (sx - c.OffsetX) / 2, sy - c.OffsetY
}
