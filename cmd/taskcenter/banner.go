package main

import (
	"fmt"
	"io"
	"strings"
)

type bannerInfo struct {
	URL       string
	DataDir   string
	StaticDir string
	EnvFile   string
	KeyHint   string
	Colorize  bool
}

var bannerEndpoints = []struct {
	path string
	desc string
}{
	{"/api/generate", "AI task planning"},
	{"/api/summarize", "Meeting summarization"},
	{"/api/format-transcript", "Transcript formatting"},
	{"/api/transcribe", "Speech-to-text"},
	{"/api/data", "Data storage (GET/POST)"},
}

func printBanner(w io.Writer, info bannerInfo) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Task Command Center")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Server running at: %s\n", info.URL)
	fmt.Fprintln(w, "API endpoints:")
	for _, ep := range bannerEndpoints {
		fmt.Fprintf(w, "  - %-24s %s\n", ep.path, ep.desc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Data storage:")
	fmt.Fprintf(w, "  - %s\n", info.DataDir)
	fmt.Fprintf(w, "Static files:\n  - %s\n", info.StaticDir)
	fmt.Fprintln(w)

	if info.EnvFile != "" {
		fmt.Fprintln(w, renderStatusLine("Env file", statusInfo, info.EnvFile, info.Colorize))
	}
	if info.KeyHint != "" {
		fmt.Fprintln(w, renderStatusLine("API key", statusOK, "loaded (ends with: "+info.KeyHint+")", info.Colorize))
	} else {
		fmt.Fprintln(w, renderStatusLine("API key", statusWarn, "OPENAI_API_KEY not set", info.Colorize))
		fmt.Fprintln(w, "  Create a .env file with: OPENAI_API_KEY=your-key-here")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press Ctrl+C to stop the server")
	fmt.Fprintln(w, rule)
}
