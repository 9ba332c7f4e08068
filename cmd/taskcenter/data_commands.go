package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskcenter/internal/store"
)

func newDataCommand(ctx *commandContext) *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect and import stored documents",
	}

	dataCmd.AddCommand(newDataListCommand(ctx))
	dataCmd.AddCommand(newDataShowCommand(ctx))
	dataCmd.AddCommand(newDataImportCommand(ctx))

	return dataCmd
}

func openStore(ctx *commandContext) (*store.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cliLogger(cfg)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Paths.DataDir, logger)
}

func newDataListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections and their backing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := openStore(ctx)
			if err != nil {
				return err
			}
			infos, err := docs.Info()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Collection", "File", "Size", "Modified"},
				documentRows(infos),
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func documentRows(infos []store.DocumentInfo) [][]string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		size, modified := "-", "never saved"
		if info.Exists {
			size = fmt.Sprintf("%d B", info.Size)
			modified = info.ModTime.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{string(info.Collection), info.Path, size, modified})
	}
	return rows
}

func newDataShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [collection]",
		Short: "Print a collection, or every collection when none is named",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := openStore(ctx)
			if err != nil {
				return err
			}
			var raw []byte
			if len(args) == 0 {
				snap, err := docs.Snapshot()
				if err != nil {
					return err
				}
				if raw, err = json.Marshal(snap); err != nil {
					return err
				}
			} else {
				collection, ok := store.ParseCollection(args[0])
				if !ok {
					return fmt.Errorf("unknown collection %q (want one of %s)", args[0], collectionNames())
				}
				if raw, err = docs.Get(collection); err != nil {
					return err
				}
			}
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
}

func newDataImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace collections from an aggregate JSON export",
		Long: "Reads an object keyed by collection name (the GET /api/data shape) and\n" +
			"overwrites each collection present in it. Absent collections are left as is.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			docs, err := openStore(ctx)
			if err != nil {
				return err
			}
			saved, err := docs.SaveAll(cmd.Context(), body)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(saved))
			for _, c := range saved {
				names = append(names, string(c))
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No known collections in input; nothing written")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", strings.Join(names, ", "))
			return nil
		},
	}
}

func collectionNames() string {
	names := make([]string, 0, len(store.Collections))
	for _, c := range store.Collections {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
