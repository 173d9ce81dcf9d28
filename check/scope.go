package check

import (
	"fmt"

	"github.com/golangee/aaa/resolve"
	"github.com/golangee/aaa/token"
)

// localBinding is one argument or use-block local.
type localBinding struct {
	Type  *resolve.ResolvedType
	Const bool
	Pos   token.Pos
}

// scope is a stack of local frames (one per function, use-block and match
// case),
// innermost last. Argument and local names must be unique across the whole
// function, not just shadow-safe, so lookups and collision checks always
// walk every frame.
type scope struct {
	frames []map[string]*localBinding
}

func newScope() *scope {
	return &scope{}
}

func (s *scope) push() {
	s.frames = append(s.frames, map[string]*localBinding{})
}

func (s *scope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scope) lookup(name string) (*localBinding, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i][name]; ok {
			return b, true
		}
	}

	return nil, false
}

// declare binds name in the innermost frame. It reports and refuses a
// collision against any existing local/argument in any frame, and against
// any global name (builtins, functions, types) visible in the current file
// through the cross-reference table.
func (s *scope) declare(c *Checker, name string, pos token.Pos, b *localBinding) bool {
	if existing, ok := s.lookup(name); ok {
		c.rep.Add(token.NewPosError(
			nodeAt(pos), fmt.Sprintf("%q is already declared in this function", name),
			token.NewErrDetail(nodeAt(existing.Pos), fmt.Sprintf("previous declaration of %q here", name)),
		))

		return false
	}

	if sym, ok := c.table.Lookup(c.file, name); ok {
		c.rep.Add(token.NewPosError(nodeAt(pos), fmt.Sprintf("%q shadows a %s of the same name", name, sym.Kind)))

		return false
	}

	s.frames[len(s.frames)-1][name] = b

	return true
}

func nodeAt(pos token.Pos) token.Node {
	return token.NewNode(pos, pos)
}
