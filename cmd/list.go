package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/props"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered documents",
	Long: `List all discovered documents with their source file, size, and the data
files that resolve for them.

Examples:
  mailtempl list                  # List all documents in table format
  mailtempl list -f json          # Output as JSON
  mailtempl list --format yaml    # Output as YAML`,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
}

type listEntry struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modTime" yaml:"modTime"`
	Data    []string  `json:"data" yaml:"data"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()
	logger := newLogger(cfg)

	reg, _, names, err := discoverDocuments(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	entries := make([]listEntry, 0, len(names))
	for _, name := range names {
		info, ok := reg.Get(name)
		if !ok {
			continue
		}
		entries = append(entries, listEntry{
			Name:    info.Name,
			Path:    info.Path,
			Size:    info.Size,
			ModTime: info.ModTime,
			Data:    dataFiles(info.Path),
		})
	}

	switch strings.ToLower(listFormat) {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(entries)
	case "table":
		return outputTable(entries)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", listFormat)
	}
}

// dataFiles names the data files that exist next to the document.
func dataFiles(docPath string) []string {
	var data []string
	if _, err := os.Stat(props.ThemePath(docPath)); err == nil {
		data = append(data, "theme")
	}
	if _, err := os.Stat(props.SamplePath(docPath)); err == nil {
		data = append(data, "sample")
	}
	return data
}

func outputTable(entries []listEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "NAME\tFILE\tSIZE\tMODIFIED\tDATA")
	for _, entry := range entries {
		data := strings.Join(entry.Data, ",")
		if data == "" {
			data = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			entry.Name,
			entry.Path,
			entry.Size,
			entry.ModTime.Format("2006-01-02 15:04:05"),
			data,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d documents\n", len(entries))
	return nil
}
