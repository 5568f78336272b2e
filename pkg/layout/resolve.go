package layout

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/mcdsl/pkg/command"
)

// ErrDanglingReference is returned when a command references a trigger that
// was never laid out.
var ErrDanglingReference = errors.New("reference to unknown trigger")

type spanKey struct {
	namespace string
	trigger   string
}

// Resolver is the second pass. It replaces trigger references with fill
// commands over the recorded spans.
type Resolver struct {
	spans map[spanKey]Span
}

// NewResolver indexes spans from any number of plans.
func NewResolver(plans ...*Plan) *Resolver {
	r := &Resolver{spans: make(map[spanKey]Span)}
	for _, p := range plans {
		r.Add(p.Spans...)
	}
	return r
}

// Add records spans. A later span for the same trigger replaces an earlier one.
func (r *Resolver) Add(spans ...Span) {
	for _, s := range spans {
		r.spans[spanKey{s.Namespace, s.Trigger}] = s
	}
}

// Span returns the recorded span of a trigger.
func (r *Resolver) Span(namespace, trigger string) (Span, bool) {
	s, ok := r.spans[spanKey{namespace, trigger}]
	return s, ok
}

// Lookup renders a single reference.
func (r *Resolver) Lookup(ref command.Ref) (string, error) {
	s, ok := r.Span(ref.Namespace, ref.Trigger)
	if !ok {
		return "", fmt.Errorf("%w: %s:%s", ErrDanglingReference, ref.Namespace, ref.Trigger)
	}
	switch ref.Kind {
	case command.RefFire:
		return fill(s.Start, s.End, MaterialFire), nil
	case command.RefReset:
		return fill(s.Start, s.End, MaterialReset), nil
	default:
		return "", fmt.Errorf("%w: %s has unknown kind %d", ErrDanglingReference, ref, int(ref.Kind))
	}
}

// Resolve renders c with every reference replaced.
func (r *Resolver) Resolve(c command.Command) (string, error) {
	return c.Resolve(r.Lookup)
}

// ResolveAll resolves cmds in order and stops at the first error.
func (r *Resolver) ResolveAll(cmds []command.Command) ([]string, error) {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		s, err := r.Resolve(c)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
