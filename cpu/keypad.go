package cpu

import (
	"fmt"
)

const (
	KEY_COUNT = 16
)

// Key is a logical keypad key, 0x0 through 0xF.
type Key uint8

func (key Key) Valid() bool {
	return key < KEY_COUNT
}

func (key Key) String() string {
	return fmt.Sprintf("%X", uint8(key))
}

// Keypad is the input latch.
type Keypad struct {
	Pressed [KEY_COUNT]bool // Current key states.
	Last    Key             // Most recently pressed key.

	edge bool // A key went down since the last consume().
}

// Down marks a key as pressed. Only a released to pressed transition
// arms the latch used by the key wait instruction.
func (kp *Keypad) Down(key Key) (err error) {
	if !key.Valid() {
		err = ErrKeyInvalid
		return
	}

	if !kp.Pressed[key] {
		kp.Last = key
		kp.edge = true
	}
	kp.Pressed[key] = true

	return
}

// Up marks a key as released.
func (kp *Keypad) Up(key Key) (err error) {
	if !key.Valid() {
		err = ErrKeyInvalid
		return
	}

	kp.Pressed[key] = false

	return
}

// IsPressed reports the state of a key. Out of range keys are never pressed.
func (kp *Keypad) IsPressed(key Key) bool {
	return key.Valid() && kp.Pressed[key]
}

// Pending reports whether a press is waiting to be consumed.
func (kp *Keypad) Pending() bool {
	return kp.edge
}

// consume takes the pending press, if any.
func (kp *Keypad) consume() (key Key, ok bool) {
	if !kp.edge {
		return
	}
	kp.edge = false
	return kp.Last, true
}

func (kp *Keypad) Reset() {
	*kp = Keypad{}
}
