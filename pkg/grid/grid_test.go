package grid

import "testing"

func TestGetGridCoords(t *testing.T) {
	tests := []struct {
		index int
		cols  int
		wantX int
		wantY int
	}{
		// 16 cols (data segment view)
		{0, 16, 0, 0},
		{1, 16, 1, 0},
		{15, 16, 15, 0},
		{16, 16, 0, 1},
		{17, 16, 1, 1},
		{253, 16, 13, 15},
		{255, 16, 15, 15},

		// 32 cols (wide view)
		{0, 32, 0, 0},
		{31, 32, 31, 0},
		{32, 32, 0, 1},
		{255, 32, 31, 7},

		// degenerate width
		{5, 0, 0, 0},
	}

	for _, tc := range tests {
		gotX, gotY := GetGridCoords(tc.index, tc.cols)
		if gotX != tc.wantX || gotY != tc.wantY {
			t.Errorf("GetGridCoords(%d, %d) = (%d, %d); want (%d, %d)", tc.index, tc.cols, gotX, gotY, tc.wantX, tc.wantY)
		}
	}
}

func TestCellOrigin(t *testing.T) {
	px, py := CellOrigin(255, 16, 30, 18, 400, 40)
	if px != 400+15*30 || py != 40+15*18 {
		t.Errorf("CellOrigin(255) = (%d, %d)", px, py)
	}
}
