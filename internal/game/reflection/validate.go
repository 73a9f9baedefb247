package reflection

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// IssueKind classifies a validation issue.
type IssueKind int32

const (
	IssueUnknownCategory IssueKind = iota
	IssueMalformedPercent
	IssueInvalidID
)

// String returns a short name of the issue kind.
func (k IssueKind) String() string {
	switch k {
	case IssueUnknownCategory:
		return "unknown-category"
	case IssueMalformedPercent:
		return "malformed-percent"
	case IssueInvalidID:
		return "invalid-id"
	default:
		return "unknown"
	}
}

// Issue is a problem found in a reflect tag at content-load time.
type Issue struct {
	Source string // e.g. "state 12"
	Tag    string
	Kind   IssueKind
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Source, i.Kind, i.Tag)
}

// anyReflectTag matches anything shaped like "<WORDS REFLECT X: Y>",
// including categories the resolver does not know.
var anyReflectTag = regexp.MustCompile(`(?i)<\s*([a-z][a-z\s]*?)\s+reflect\s+([^:<>]*?)\s*:\s*([^<>]*?)\s*>`)

// anyReflectHead matches the head of such a tag; heads that do not start
// a complete tag are unterminated.
var anyReflectHead = regexp.MustCompile(`(?i)<\s*[a-z][a-z\s]*?\s+reflect\s+[^:<>]*?\s*:`)

// Validate reports reflect-shaped tags in notes that the resolver would
// ignore or skip. Unknown categories silently contribute 0 at runtime,
// so this is the only place they surface.
func Validate(source, notes string) []Issue {
	complete := make(map[int][]string)
	for _, loc := range anyReflectTag.FindAllStringSubmatchIndex(notes, -1) {
		m := make([]string, 4)
		for g := range m {
			m[g] = notes[loc[2*g]:loc[2*g+1]]
		}
		complete[loc[0]] = m
	}

	var issues []Issue
	for _, loc := range anyReflectHead.FindAllStringIndex(notes, -1) {
		m, ok := complete[loc[0]]
		if !ok {
			issues = append(issues, Issue{Source: source, Tag: fragmentAt(notes, loc[0]), Kind: IssueMalformedPercent})
			continue
		}
		if kind, bad := checkTag(m[1], m[2], m[3]); bad {
			issues = append(issues, Issue{Source: source, Tag: m[0], Kind: kind})
		}
	}
	return issues
}

// checkTag classifies one complete tag. Ids must be positive and written
// without leading zeros or sign.
func checkTag(token, rawID, payload string) (IssueKind, bool) {
	if _, err := ParseCategory(token); err != nil {
		return IssueUnknownCategory, true
	}
	rawID = strings.TrimSpace(rawID)
	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 || strconv.Itoa(id) != rawID {
		return IssueInvalidID, true
	}
	if _, err := parsePercent(payload); err != nil {
		return IssueMalformedPercent, true
	}
	return 0, false
}
