package ppu

import (
	"testing"
)

func TestLoopyFields(t *testing.T) {
	cases := []struct {
		cx, cy, fy uint16 // values to set
		want       uint16 // raw register afterwards
	}{
		{0, 0, 0, 0x0000},
		{31, 0, 0, 0x001F},
		{0, 29, 0, 29 << 5},
		{0, 0, 7, 7 << 12},
		{5, 10, 3, 3<<12 | 10<<5 | 5},
		{0xFF, 0xFF, 0xFF, 7<<12 | 31<<5 | 31}, // everything masks to field width
	}

	for i, tc := range cases {
		var l loopy
		l.setCoarseX(tc.cx)
		l.setCoarseY(tc.cy)
		l.setFineY(tc.fy)

		if l.data != tc.want {
			t.Errorf("%d: Got %015b, want %015b", i, l.data, tc.want)
		}
		if l.coarseX() != tc.cx&0x1F || l.coarseY() != tc.cy&0x1F || l.fineY() != tc.fy&0x07 {
			t.Errorf("%d: field read-back mismatch on %015b", i, l.data)
		}
	}
}

func TestLoopyIncrementX(t *testing.T) {
	cases := []struct {
		before, after uint16 // raw register values
	}{
		{0x0000, 0x0001},
		{0x001E, 0x001F},
		{0x001F, 0x0400}, // wrap flips the horizontal nametable
		{0x041F, 0x0000}, // and flips it back
		{0x7BDF, 0x7FC0}, // high bits ride along untouched
	}

	for i, tc := range cases {
		l := loopy{data: tc.before}
		l.incrementX()
		if l.data != tc.after {
			t.Errorf("%d: Got %015b, want %015b", i, l.data, tc.after)
		}
	}
}

func TestLoopyIncrementY(t *testing.T) {
	cases := []struct {
		before, after uint16
	}{
		{0x0000, 0x1000},          // fine Y steps first
		{0x6000, 0x7000},          //
		{0x7000, 0x0020},          // fine Y overflow carries into coarse Y
		{0x7000 | 29<<5, 0x0800},  // coarse Y 29 wraps, flipping the vertical nametable
		{0x7800 | 29<<5, 0x0000},  // and flips it back
		{0x7000 | 31<<5, 0x0000},  // the attribute rows wrap without the flip
		{0x7000 | 30<<5, 31 << 5}, // row 30 steps into 31
	}

	for i, tc := range cases {
		l := loopy{data: tc.before}
		l.incrementY()
		if l.data != tc.after {
			t.Errorf("%d: Got %015b, want %015b", i, l.data, tc.after)
		}
	}
}

func TestLoopyCopies(t *testing.T) {
	v := loopy{data: 0x7FFF}
	tr := loopy{data: 0x0000}

	v.copyX(tr)
	if v.data != 0x7FFF&^0x041F {
		t.Errorf("copyX: Got %015b, want horizontal bits cleared", v.data)
	}

	v = loopy{data: 0x7FFF}
	v.copyY(tr)
	if v.data != 0x7FFF&^0x7BE0 {
		t.Errorf("copyY: Got %015b, want vertical bits cleared", v.data)
	}
}

func TestLoopyAdd(t *testing.T) {
	l := loopy{data: 0x7FFF}
	l.add(1)
	if l.data != 0x0000 {
		t.Errorf("add: Got %015b, want 15 bit wraparound", l.data)
	}
}
