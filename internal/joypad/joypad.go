// Package joypad provides the guest-visible state of the Game Boy
// joypad. Keys are polled by the guest through the P1 register, never
// pushed: the memory core calls P1 when the guest writes the register.
package joypad

import "github.com/gbvm/gbvm/pkg/utils"

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	// ButtonRight is the Right direction key.
	ButtonRight Button = iota
	// ButtonLeft is the Left direction key.
	ButtonLeft
	// ButtonUp is the Up direction key.
	ButtonUp
	// ButtonDown is the Down direction key.
	ButtonDown
	// ButtonA is the A button.
	ButtonA
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
)

// State holds the currently pressed keys. The lower nibble holds the
// direction keys and the upper nibble the buttons; a set bit means the
// key is held down.
type State struct {
	State uint8
}

// Press presses a button.
func (s *State) Press(button Button) {
	s.State = utils.SetBit(s.State, button)
}

// Release releases a button.
func (s *State) Release(button Button) {
	s.State = utils.ClearBit(s.State, button)
}

// P1 returns the byte the guest reads back from the P1 register after
// writing mask to it. The keypad matrix is open collector and active
// low: the selected nibbles are gathered and the result complemented,
// so a pressed key reads as 0.
func (s *State) P1(mask uint8) uint8 {
	var result uint8
	if mask&^uint8(0x10) != 0 {
		result |= s.State & 0x0f
	}
	if mask&^uint8(0x20) != 0 {
		result |= s.State >> 4
	}
	return ^result
}
