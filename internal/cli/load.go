package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/minikb/internal/loader"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Load a fact document (.yaml, .yml, .json or .cue)",
		Long: `Load every graph of a fact document in one transaction.

A document lists graphs, each with a model and its asserted and inferred
triples:

  graphs:
    - model: default
      asserted:
        - [Rex, type, Dog]
      inferred:
        - [Rex, type, Animal]

CUE documents are checked against the same schema before loading.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			doc, err := loader.Load(args[0])
			if err != nil {
				return f.Fail("failed to load fact file", err)
			}
			f.VerboseLog("parsed %s: %d graph(s), %d triple(s)", args[0], len(doc.Graphs), doc.Count())

			k, closeFn, err := rootOpts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			result, err := k.Load(commandContext(cmd), doc)
			if err != nil {
				return f.Fail("load failed", err)
			}
			if f.Format == "json" {
				return f.Success(result)
			}
			return f.Success(fmt.Sprintf("loaded %d triple(s) from %d graph(s); %d new",
				result.Triples, result.Graphs, result.Inserted))
		},
	}
}

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Output string
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the knowledge base as a fact document",
		Long: `Write the stored facts as a fact document that load accepts. Every model
is dumped unless --model is given. Text format writes YAML; json format
writes the document as JSON.

Example:
  kb dump -o backup.yaml
  kb dump --model pets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	k, closeFn, err := opts.openKB()
	if err != nil {
		return f.Fail("failed to open database", err)
	}
	defer closeFn()

	// An explicit --model restricts the dump; otherwise every model.
	var models []string
	if cmd.Flags().Changed("model") {
		models = opts.Models
	}
	statements, err := k.Statements(commandContext(cmd), models)
	if err != nil {
		return f.Fail("dump failed", err)
	}
	doc := loader.FromStatements(statements)

	var data []byte
	if opts.Format == "json" {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return f.Fail("failed to encode document", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		file, err := os.Create(opts.Output)
		if err != nil {
			return f.Fail("failed to create output file", err)
		}
		defer file.Close()
		w = file
	}
	if _, err := w.Write(data); err != nil {
		return f.Fail("failed to write document", err)
	}
	f.VerboseLog("dumped %d statement(s) in %d model(s)", len(statements), len(doc.Graphs))
	return nil
}
