package state

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type record struct {
	line       int
	raw        string
	name       string
	code       string
	cost       int
	components []string // empty for primal records, otherwise two names
}

func (r record) String() string {
	return fmt.Sprintf("line %d: %s", r.line, r.raw)
}

func parseRecord(line int, raw string) (record, error) {
	malformed := func(format string, args ...any) error {
		return &MalformedRecordError{Line: line, Record: raw, Reason: fmt.Sprintf(format, args...)}
	}

	fields := strings.Split(raw, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	rec := record{line: line, raw: raw, cost: DefaultCost}

	// a custom cost is given
	if len(fields)%2 == 1 && len(fields) > 1 {
		last := fields[len(fields)-1]
		cost, err := strconv.Atoi(last)
		if err != nil {
			return rec, malformed("cost %q is not an integer", last)
		}
		if cost <= 0 {
			return rec, malformed("cost must be positive, got %d", cost)
		}
		rec.cost = cost
		fields = fields[:len(fields)-1]
	}

	switch len(fields) {
	case 2:
	case 4:
		rec.components = fields[2:4]
	default:
		return rec, malformed("expected name,code[,cost] or name,code,component,component[,cost]")
	}

	for _, f := range fields {
		if f == "" {
			return rec, malformed("empty field")
		}
	}
	rec.name = fields[0]
	rec.code = fields[1]
	return rec, nil
}

// ParseSource parses entity definitions, one per line. Composite definitions may
// reference entities defined later in the source: unresolved records are deferred
// to the end of the work list and retried. The number of passes is bounded by the
// number of records, so a missing or cyclic definition fails with
// ErrDefinitionUnresolved instead of looping forever.
func ParseSource(lines []string) (*Catalog, error) {
	records := make([]record, 0, len(lines))
	// every name and code, shared key space, mapped to the record that declared it
	keys := make(map[string]int)

	// pass 0, parse records
	for idx, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseRecord(idx+1, line)
		if err != nil {
			return nil, err
		}
		for _, declared := range []string{rec.name, rec.code} {
			key := lookupKey(declared)
			if owner, ok := keys[key]; ok && owner != len(records) {
				return nil, &DuplicateEntityError{Line: rec.line, Name: declared}
			}
			keys[key] = len(records)
		}
		records = append(records, rec)
	}

	c := NewCatalog()

	// pass 1..n, resolve definitions
	queue := records
	for passes := 0; len(queue) > 0; passes++ {
		if passes >= len(records) {
			return nil, unresolved(queue)
		}
		deferred := make([]record, 0)
		for _, rec := range queue {
			if len(rec.components) == 0 {
				c.add(rec.name, rec.code, rec.cost, nil)
				continue
			}
			c1, ok1 := c.lookupName(rec.components[0])
			c2, ok2 := c.lookupName(rec.components[1])
			if !ok1 || !ok2 {
				// move the record to the back of the list
				deferred = append(deferred, rec)
				continue
			}
			c.add(rec.name, rec.code, rec.cost, &Pair[EntityId, EntityId]{c1, c2})
		}
		if len(deferred) == len(queue) {
			// no progress, further passes cannot resolve anything
			return nil, unresolved(deferred)
		}
		queue = deferred
	}

	c.Neighbours = ComputeNeighbours(c.Entities)
	return c, nil
}

func unresolved(recs []record) error {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.String())
	}
	return &UnresolvedError{Records: out}
}

func LoadSource(r io.Reader) (*Catalog, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return ParseSource(lines)
}

func LoadSourceFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := LoadSource(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
