// Package outcome infers whether a program launched on a remote C64 ran
// cleanly, stopped with an interpreter error, or crashed. The machine has no
// exit code; the verdict comes from sampling its screen and hardware status
// regions over a bounded window.
package outcome

// ProgramType selects the detection heuristics for one poll.
type ProgramType string

const (
	// TypeBasic is an interpreted BASIC program; errors show on screen.
	TypeBasic ProgramType = "basic"
	// TypeASM is assembled machine code; crashes show as frozen hardware.
	TypeASM ProgramType = "asm"
)

// Status is the classification of one observed run.
type Status string

const (
	StatusOK      Status = "ok"
	StatusError   Status = "error"
	StatusCrashed Status = "crashed"
)

// Probe is the read-only view of the machine the engine samples.
// Reads may fail transiently; a failed read is never evidence of an outcome.
type Probe interface {
	ReadScreen() (string, error)
	ReadMemory(addr, n uint16) ([]byte, error)
}

// Result is the verdict of one poll.
//
// StatusError carries Message (and Line when the interpreter printed one)
// and only occurs for TypeBasic. StatusCrashed carries Reason and only
// occurs for TypeASM. StatusOK carries nothing extra.
type Result struct {
	Status Status
	Type   ProgramType

	Message string
	Line    *int
	Reason  string
}
