package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskcenter/internal/preflight"
	"taskcenter/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var checkLLM bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, dependency, and credential health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			lines = append(lines,
				renderStatusLine("Config file", statusInfo, ctx.configPath, colorize),
				renderStatusLine("Env file", statusInfo, textutil.Ternary(ctx.envFile != "", ctx.envFile, "none"), colorize),
				renderStatusLine("Listen address", statusInfo, cfg.Addr(), colorize),
				renderStatusLine("Chat model", statusInfo, cfg.OpenAI.ChatModel, colorize),
				renderStatusLine("Transcription model", statusInfo, cfg.OpenAI.TranscriptionModel, colorize),
				"",
			)
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cfg), colorize)...)
			lines = append(lines, "")

			results := preflight.RunAll(cmd.Context(), cfg)
			if checkLLM {
				results = append(results, preflight.CheckLLM(cmd.Context(), "OpenAI chat", llmConfig(cfg)))
			}
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			lines = append(lines, preflightLines(results, colorize)...)

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkLLM, "check-llm", false, "Send a test request to the chat API")
	return cmd
}
