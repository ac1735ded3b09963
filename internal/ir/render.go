package ir

import (
	"fmt"
	"strings"
)

// String renders a debug dump of a Program: one instruction per line,
// loop bodies indented. This is what `bfc --dump-ir` prints; it has no
// obligation to round-trip to source (Set and MultiplyMove have no
// syntactic form at all).
func (p Program) String() string {
	var sb strings.Builder
	p.writeIndented(&sb, 0)
	return sb.String()
}

func (p Program) writeIndented(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, instr := range p {
		sb.WriteString(indent)
		switch instr.Kind {
		case Increment:
			fmt.Fprintf(sb, "Increment(%d, offset=%d)\n", instr.Amount, instr.Offset)
		case PointerMove:
			fmt.Fprintf(sb, "PointerMove(%d)\n", instr.Delta)
		case Read:
			sb.WriteString("Read\n")
		case Write:
			sb.WriteString("Write\n")
		case Set:
			fmt.Fprintf(sb, "Set(%d, offset=%d)\n", instr.Amount, instr.Offset)
		case MultiplyMove:
			fmt.Fprintf(sb, "MultiplyMove(%s)\n", formatChanges(instr.Changes))
		case Loop:
			sb.WriteString("Loop {\n")
			instr.Body.writeIndented(sb, depth+1)
			sb.WriteString(indent)
			sb.WriteString("}\n")
		}
	}
}

func formatChanges(changes map[int]int8) string {
	keys := make([]int, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	// Sort for deterministic output; small maps, insertion sort is fine.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d: %+d", k, changes[k]))
	}
	return strings.Join(parts, ", ")
}

// SourceText reconstructs the original token stream for a Program that
// contains only the instructions the parser itself produces:
// Increment(1|-1, 0), PointerMove(1|-1), Read, Write, Loop. It is used by
// the parse round-trip property (spec §8.1) and by `bfc fmt`, which
// canonicalizes source by parsing then re-rendering. ok is false if the
// program contains a Set, MultiplyMove, or any magnitude the bare parser
// would never produce, since those have no syntactic representation.
func (p Program) SourceText() (text string, ok bool) {
	var sb strings.Builder
	if !p.writeSource(&sb) {
		return "", false
	}
	return sb.String(), true
}

func (p Program) writeSource(sb *strings.Builder) bool {
	for _, instr := range p {
		switch instr.Kind {
		case Increment:
			if instr.Offset != 0 {
				return false
			}
			switch instr.Amount {
			case 1:
				sb.WriteByte('+')
			case -1:
				sb.WriteByte('-')
			default:
				return false
			}
		case PointerMove:
			switch instr.Delta {
			case 1:
				sb.WriteByte('>')
			case -1:
				sb.WriteByte('<')
			default:
				return false
			}
		case Read:
			sb.WriteByte(',')
		case Write:
			sb.WriteByte('.')
		case Loop:
			sb.WriteByte('[')
			if !instr.Body.writeSource(sb) {
				return false
			}
			sb.WriteByte(']')
		default:
			return false
		}
	}
	return true
}
