package datapack

import (
	"github.com/jwebster45206/mcdsl/pkg/command"
)

// Function is a named list of commands. It cannot be changed once created.
type Function struct {
	command.FunctionRef
	body []command.Command
}

// Ref returns the function's identity.
func (f *Function) Ref() command.FunctionRef {
	return f.FunctionRef
}

// Body returns the unresolved commands of the function.
func (f *Function) Body() []command.Command {
	out := make([]command.Command, len(f.body))
	copy(out, f.body)
	return out
}
