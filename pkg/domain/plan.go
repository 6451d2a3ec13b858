package domain

import "fmt"

// Plan is an ordered sequence of commands. It is append-only while being
// built by a single owner and becomes read-only once frozen. A frozen plan
// can be shared freely: nothing mutates it afterwards.
type Plan struct {
	commands []Command
	frozen   bool
}

// NewPlan creates an empty, unfrozen plan.
func NewPlan() *Plan {
	return &Plan{}
}

// PlanOf creates a frozen plan holding cmds. Nil commands are skipped.
func PlanOf(cmds ...Command) *Plan {
	p := &Plan{commands: make([]Command, 0, len(cmds))}
	for _, c := range cmds {
		if c == nil {
			continue
		}
		p.commands = append(p.commands, Normalize(c))
	}
	p.frozen = true
	return p
}

// Append adds commands to the end of the plan. Numeric fields are normalized
// on the way in. Appending to a frozen plan fails with ErrInvalidState.
func (p *Plan) Append(cmds ...Command) error {
	if p.frozen {
		return fmt.Errorf("append to frozen plan: %w", ErrInvalidState)
	}
	for _, c := range cmds {
		if c == nil {
			continue
		}
		p.commands = append(p.commands, Normalize(c))
	}
	return nil
}

// Freeze makes the plan immutable and returns it. Freezing twice is a no-op.
func (p *Plan) Freeze() *Plan {
	p.frozen = true
	return p
}

// Frozen reports whether the plan can still be appended to.
func (p *Plan) Frozen() bool {
	return p.frozen
}

// Len returns the number of commands.
func (p *Plan) Len() int {
	return len(p.commands)
}

// At returns the i-th command.
func (p *Plan) At(i int) Command {
	return p.commands[i]
}

// Commands returns the commands of a frozen plan without copying; for an
// unfrozen plan it returns a copy so the builder can keep appending.
// Callers must not modify the returned slice.
func (p *Plan) Commands() []Command {
	if p.frozen {
		return p.commands
	}
	return append([]Command(nil), p.commands...)
}
