package store

import "testing"

func TestStore_SetAndRow(t *testing.T) {
	s := New(4, 3)

	if s.Capacity() != 4 {
		t.Errorf("expected capacity=4, got %d", s.Capacity())
	}
	if s.Width() != 3 {
		t.Errorf("expected width=3, got %d", s.Width())
	}

	s.Set(0, []int32{1, 2, 3})
	s.Set(2, []int32{-7, 0, 9})

	row := s.Row(2)
	if row[0] != -7 || row[1] != 0 || row[2] != 9 {
		t.Errorf("unexpected row contents: %v", row)
	}
}

func TestStore_RowAliasesBuffer(t *testing.T) {
	s := New(2, 2)
	s.Set(1, []int32{5, 6})

	row := s.Row(1)
	if &row[0] != &s.Buffer()[2] {
		t.Error("Row must alias the underlying buffer")
	}

	// A later Set to the same slot is visible through the earlier view.
	s.Set(1, []int32{8, 9})
	if row[0] != 8 || row[1] != 9 {
		t.Errorf("view not updated: %v", row)
	}
}

func TestStore_FromBuffer(t *testing.T) {
	buf := []int32{1, 2, 3, 4, 5, 6}
	s := FromBuffer(buf, 3)

	if s.Capacity() != 2 {
		t.Errorf("expected capacity=2, got %d", s.Capacity())
	}
	row := s.Row(1)
	if row[0] != 4 || row[1] != 5 || row[2] != 6 {
		t.Errorf("unexpected row contents: %v", row)
	}
}

func TestStore_Panics(t *testing.T) {
	expectPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	s := New(2, 3)
	expectPanic("row beyond capacity", func() { s.Set(2, []int32{0, 0, 0}) })
	expectPanic("negative row", func() { s.Row(-1) })
	expectPanic("wrong width", func() { s.Set(0, []int32{0, 0}) })
	expectPanic("bad buffer length", func() { FromBuffer([]int32{1, 2, 3, 4}, 3) })
	expectPanic("invalid shape", func() { New(4, 0) })
}
