package store

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Collection names one stored document.
type Collection string

const (
	Tasks    Collection = "tasks"
	Memos    Collection = "memos"
	Projects Collection = "projects"
	Meetings Collection = "meetings"
	Planner  Collection = "planner"
)

// Collections lists every collection in response order.
var Collections = []Collection{Tasks, Memos, Projects, Meetings, Planner}

// ParseCollection resolves a URL segment to a collection.
func ParseCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// FileName is the document's file name inside the data directory.
func (c Collection) FileName() string {
	return string(c) + ".json"
}

// EmptyValue is returned when the document is absent or empty.
func (c Collection) EmptyValue() json.RawMessage {
	if c == Planner {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(`[]`)
}

// isEmptyDocument reports whether a compacted JSON value is null, false,
// zero, an empty string, or an empty container. Such documents read back
// as the collection's empty value.
func isEmptyDocument(compact []byte) bool {
	switch s := strings.TrimSpace(string(compact)); s {
	case "", "null", "false", `""`, "[]", "{}":
		return true
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == 0 {
			return true
		}
		return false
	}
}
