package cpu

const (
	TIMER_HZ = 60 // Host tick rate for the timers.
)

// Timers are the delay and sound countdown counters.
type Timers struct {
	Delay uint8
	Sound uint8
}

// Tick decrements each non-zero timer once.
// Returns true while the sound timer is still running.
func (t *Timers) Tick() (sounding bool) {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
	return t.Sound > 0
}

func (t *Timers) Reset() {
	*t = Timers{}
}
