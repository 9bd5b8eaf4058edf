package vtodo

import (
	"iter"
	"strings"
)

// Blocks yields the property lines of each VTODO block in raw, in order.
// A block is everything strictly between a BEGIN:VTODO line and the next
// END:VTODO line, markers matched exactly after trimming whitespace. A
// trailing BEGIN:VTODO with no matching end marker is discarded; Count
// still includes it.
func Blocks(raw string) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		lines := strings.Split(raw, "\n")
		for i := 0; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) != beginTodo {
				continue
			}
			var block []string
			j := i + 1
			for ; j < len(lines); j++ {
				if strings.TrimSpace(lines[j]) == endTodo {
					if !yield(block) {
						return
					}
					break
				}
				block = append(block, lines[j])
			}
			i = j
		}
	}
}

// Count returns the number of BEGIN:VTODO markers in raw. It is a cheap
// summary statistic and deliberately more lenient than Blocks: a marker
// counts whether or not its block is ever terminated, so the count may
// exceed the number of extractable blocks.
func Count(raw string) int {
	n := 0
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == beginTodo {
			n++
		}
	}
	return n
}
