package allocator

// State represents the compile state of an allocator record
type State string

const (
	StateUncompiled State = "uncompiled"
	StateCompiling  State = "compiling"
	StateCompiled   State = "compiled"
	StateFailed     State = "failed"
)

// IsFinal returns true when the state is a compile outcome
func (s State) IsFinal() bool {
	return s == StateCompiled || s == StateFailed
}
