package grid

// GetGridCoords maps a linear cell index to its column and row in a grid
// that is cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	if cols <= 0 {
		return 0, 0
	}
	return index % cols, index / cols
}

// CellOrigin returns the top-left pixel of cell index when every cell is
// cellW x cellH pixels and the grid starts at (originX, originY).
func CellOrigin(index, cols, cellW, cellH, originX, originY int) (px, py int) {
	x, y := GetGridCoords(index, cols)
	return originX + x*cellW, originY + y*cellH
}
