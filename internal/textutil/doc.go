// Package textutil provides text helpers shared across the server.
//
// The primary use cases are:
//   - Splitting long transcripts into provider-sized chunks on sentence boundaries
//   - Taking bounded tails of tool output for error messages
//   - Sanitizing uploaded filenames before they touch the filesystem
package textutil
