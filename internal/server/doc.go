// Package server exposes the dashboard HTTP API and serves the frontend.
//
// Routes:
//
//	GET  /api/data                   all collections in one object
//	POST /api/data                   save every collection key present
//	GET  /api/data/{collection}      one collection
//	POST /api/data/{collection}      replace one collection
//	POST /api/generate               task plan (provider body relayed)
//	POST /api/summarize              meeting summary, minutes, or actions
//	POST /api/format-transcript      transcript cleanup
//	POST /api/transcribe             multipart audio upload to text
//
// Other GET and HEAD requests are served from the static directory; any
// remaining request is answered with 404 {"error": "Endpoint not found"}.
// Every failure uses the same {"error": message} body.
package server
