// Package store persists the dashboard's JSON documents (tasks, memos,
// projects, meetings, planner) as one file per collection.
//
// Documents are validated only as JSON. Writes go through a temp file and
// rename, so a reader never sees a partial document.
package store
