package reflection

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedPercent is wrapped by ConfigError when a tag matches the
// reflect grammar but its percent payload is not an integer.
var ErrMalformedPercent = errors.New("malformed reflect percent")

// tagPattern matches every reflect tag with a known category.
// Groups: category, id, raw payload. The payload never crosses '<', so an
// unterminated tag cannot swallow the tag after it.
var tagPattern = regexp.MustCompile(`(?i)<(skill\s+type|item\s+type|skill|item)\s+reflect\s+(\d+)\s*:\s*([^<>]*?)\s*>`)

// tagOpenPattern matches the head of a reflect tag with a known category.
// Every tagPattern match starts with one.
var tagOpenPattern = regexp.MustCompile(`(?i)<(?:skill\s+type|item\s+type|skill|item)\s+reflect\s+\d+\s*:`)

// percentPattern is the payload grammar: optional sign, digits, optional '%'.
var percentPattern = regexp.MustCompile(`^([+-]?\d+)%?$`)

// ConfigError describes a single tag that could not be applied.
type ConfigError struct {
	Tag string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("reflect tag %q: %v", e.Tag, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type rateKey struct {
	cat Category
	id  int
}

// NoteIndex is the parsed form of one notes text.
// Immutable after ParseNotes; safe for concurrent reads.
type NoteIndex struct {
	records Records
	totals  map[rateKey]float64
}

// ParseNotes scans notes for reflect tags in a single pass.
// Tags with a malformed payload and tag heads without a closing '>' are
// skipped and returned as errors, in notes order.
func ParseNotes(notes string) (*NoteIndex, []*ConfigError) {
	idx := &NoteIndex{totals: make(map[rateKey]float64)}
	var errs []*ConfigError

	complete := make(map[int][]string)
	for _, loc := range tagPattern.FindAllStringSubmatchIndex(notes, -1) {
		m := make([]string, 4)
		for g := range m {
			m[g] = notes[loc[2*g]:loc[2*g+1]]
		}
		complete[loc[0]] = m
	}

	// every complete tag starts at a head; heads without one are unterminated
	for _, loc := range tagOpenPattern.FindAllStringIndex(notes, -1) {
		m, ok := complete[loc[0]]
		if !ok {
			errs = append(errs, &ConfigError{Tag: fragmentAt(notes, loc[0]), Err: errUnterminated})
			continue
		}
		if err := idx.add(m); err != nil {
			errs = append(errs, err)
		}
	}

	return idx, errs
}

var errUnterminated = fmt.Errorf("%w: unterminated tag", ErrMalformedPercent)

// fragmentAt returns the text of an unterminated tag: from pos up to the
// next '<' or the end of notes.
func fragmentAt(notes string, pos int) string {
	rest := notes[pos:]
	if i := strings.IndexByte(rest[1:], '<'); i >= 0 {
		rest = rest[:i+1]
	}
	return strings.TrimSpace(rest)
}

// add applies one complete tag match (full, category, id, payload).
func (idx *NoteIndex) add(m []string) *ConfigError {
	cat, err := ParseCategory(m[1])
	if err != nil {
		// unreachable: tagPattern only captures known tokens
		return nil
	}
	id, err := strconv.Atoi(m[2])
	if err != nil {
		return &ConfigError{Tag: m[0], Err: fmt.Errorf("id %q: %w", m[2], err)}
	}
	pct, err := parsePercent(m[3])
	if err != nil {
		return &ConfigError{Tag: m[0], Err: err}
	}

	idx.records = append(idx.records, Record{Category: cat, ID: id, Percent: pct})
	idx.totals[rateKey{cat, id}] += float64(pct) / 100.0
	return nil
}

func parsePercent(payload string) (int, error) {
	pm := percentPattern.FindStringSubmatch(payload)
	if pm == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedPercent, payload)
	}
	pct, err := strconv.Atoi(pm[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedPercent, payload, err)
	}
	return pct, nil
}

// Rate implements Rates.
func (idx *NoteIndex) Rate(cat Category, id int) float64 {
	return idx.totals[rateKey{cat, id}]
}

// Records returns the parsed tags in notes order.
func (idx *NoteIndex) Records() Records {
	return idx.records
}

// Lookup returns the summed fraction of every tag in notes matching cat and id.
// Returns 0 if nothing matches. Malformed tags are skipped.
func Lookup(notes string, cat Category, id int) float64 {
	idx, _ := ParseNotes(notes)
	return idx.Rate(cat, id)
}
