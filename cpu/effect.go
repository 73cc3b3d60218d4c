package cpu

// Effect tells the host how to react to an executed instruction.
type Effect int

const (
	EFFECT_NONE      = Effect(0) // none
	EFFECT_DISPLAY   = Effect(1) // display
	EFFECT_SELF_JUMP = Effect(2) // self-jump
	EFFECT_AWAIT_KEY = Effect(3) // await-key
	EFFECT_SOUND     = Effect(4) // sound
)

var effectName = [...]string{"none", "display", "self-jump", "await-key", "sound"}

func (effect Effect) String() string {
	if effect < 0 || int(effect) >= len(effectName) {
		return "Effect(?)"
	}
	return effectName[effect]
}

// RunState is the execution state observed by the host to decide
// whether to keep driving the instruction clock.
type RunState int

const (
	RUN_STATE_RUNNING   = RunState(0) // running
	RUN_STATE_AWAIT_KEY = RunState(1) // await-key
	RUN_STATE_HALTED    = RunState(2) // halted
	RUN_STATE_FAULTED   = RunState(3) // faulted
)

var runStateName = [...]string{"running", "await-key", "halted", "faulted"}

func (state RunState) String() string {
	if state < 0 || int(state) >= len(runStateName) {
		return "RunState(?)"
	}
	return runStateName[state]
}
