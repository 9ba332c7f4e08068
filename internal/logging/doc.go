// Package logging wires log/slog for the server and CLI.
//
// It offers a console handler tuned for terminals, a JSON handler for log
// shippers, attribute helpers, context-derived fields (route and correlation
// ID), and retention pruning for the optional log directory.
package logging
