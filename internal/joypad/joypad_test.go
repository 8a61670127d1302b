package joypad

import "testing"

func TestPressRelease(t *testing.T) {
	s := &State{}

	s.Press(ButtonRight)
	s.Press(ButtonA)
	if s.State != 0x11 {
		t.Errorf("state: got %#02x, want 0x11", s.State)
	}

	s.Release(ButtonRight)
	if s.State != 0x10 {
		t.Errorf("state after release: got %#02x, want 0x10", s.State)
	}
}

func TestP1SelectLines(t *testing.T) {
	s := &State{State: 0x05} // Right and Up held

	if got := s.P1(0x20); got != 0xfa {
		t.Errorf("d-pad line: got %#02x, want 0xfa", got)
	}
	if got := s.P1(0x10); got != 0xff {
		t.Errorf("button line: got %#02x, want 0xff", got)
	}

	s.Press(ButtonStart)
	if got := s.P1(0x10); got != 0xf7 {
		t.Errorf("button line with Start held: got %#02x, want 0xf7", got)
	}
}

func TestP1NothingPressed(t *testing.T) {
	s := &State{}

	if got := s.P1(0x30); got != 0xff {
		t.Errorf("idle pad: got %#02x, want 0xff", got)
	}
}
