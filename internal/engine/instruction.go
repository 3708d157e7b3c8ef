package engine

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"linearize.dev/linearize/internal/git"
)

// Op tags an Instruction variant
type Op int

const (
	// OpBase checks out the starting commit(s) of the linear chain
	OpBase Op = iota + 1
	// OpCompensate replays a commit range onto HEAD with compensation
	OpCompensate
	// OpResolve reproduces a merge whose resolution differs from the
	// default strategy result
	OpResolve
	// OpPush enters a merge subgraph
	OpPush
	// OpPop leaves a merge subgraph and asserts tree identity
	OpPop
	// OpEnd finalizes the chain, fixing up the tip tree if needed
	OpEnd
)

// Instruction is one step of the linear reconstruction. The planner emits
// instructions in reverse chronological intent; the stream is reversed before
// Build consumes it.
type Instruction struct {
	Op     Op
	Bases  []plumbing.Hash // OpBase
	Base   plumbing.Hash   // OpCompensate
	Tip    plumbing.Hash   // OpCompensate
	Merge  plumbing.Hash   // OpResolve, OpPush, OpPop
	Path   string          // OpPush, OpPop
	Limits []plumbing.Hash // OpPush: walk bounds for nested linearization
	Head   plumbing.Hash   // OpEnd
}

func (in Instruction) String() string {
	switch in.Op {
	case OpBase:
		return "base " + strings.Join(git.HashStrings(in.Bases), " ")
	case OpCompensate:
		return fmt.Sprintf("compensate %s %s", in.Base, in.Tip)
	case OpResolve:
		return fmt.Sprintf("resolve-merge-conflict %s", in.Merge)
	case OpPush:
		return strings.TrimSpace(fmt.Sprintf("push %s %s", in.Merge, in.Path))
	case OpPop:
		return strings.TrimSpace(fmt.Sprintf("pop %s %s", in.Merge, in.Path))
	case OpEnd:
		return "end"
	default:
		return fmt.Sprintf("unknown(%d)", in.Op)
	}
}

// reverse returns the instruction stream in execution order
func reverse(instrs []Instruction) []Instruction {
	result := make([]Instruction, len(instrs))
	for i, in := range instrs {
		result[len(instrs)-1-i] = in
	}
	return result
}
