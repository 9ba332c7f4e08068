// Package preflight provides readiness checks for the filesystem paths,
// binaries, and provider credentials taskcenter depends on.
//
// These checks run in two contexts:
//   - "taskcenter serve" logs every failed check as a warning at boot and
//     keeps running; the affected endpoints report their own errors.
//   - "taskcenter status" renders all results as a table, optionally
//     including a live chat API probe (CheckLLM).
package preflight
