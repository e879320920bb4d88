// Package floorset owns the textual encoding of a warden's assigned floor
// numbers. Every producer and consumer of the assigned_floors column goes
// through Parse/Serialize; the raw text is never interpreted anywhere else.
package floorset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed reports an absent or unparseable floor-set encoding. Callers
// treat it as "no floors assigned", not as a crash.
var ErrMalformed = errors.New("malformed floor set")

// Parse decodes a floor-set string into its ordered floor numbers.
// The canonical form is "[1,2,5]"; the historical bare form "1,2,5" and
// stray whitespace are tolerated on input. Duplicates are dropped keeping
// first occurrence. Negative numbers and non-integers are rejected.
func Parse(raw string) ([]int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformed, raw)
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	} else if strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformed, raw)
	}

	if s == "" {
		return []int{}, nil
	}

	parts := strings.Split(s, ",")
	floors := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %q", ErrMalformed, part, raw)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative floor %d in %q", ErrMalformed, n, raw)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		floors = append(floors, n)
	}
	return floors, nil
}

// Serialize encodes floor numbers in the canonical form: "[1,2,5]", order
// preserved, no spaces. The empty set serializes to "[]".
func Serialize(floors []int) string {
	if len(floors) == 0 {
		return "[]"
	}
	parts := make([]string, len(floors))
	for i, n := range floors {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
