package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/kb"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Inferred bool
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <triple>...",
		Short: "Add facts to a model",
		Long: `Add facts to a model. Adding a fact that already exists is a no-op.
The whole batch is written atomically; a variable in any triple rejects it.

Example:
  kb add "Rex type Dog" "Rex owner Alice"
  kb add --model pets "Fido type Dog"
  kb add --inferred "Rex type Animal"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := "add"
			mutate := (*kb.KB).Add
			if opts.Inferred {
				op = "add_inferred"
				mutate = (*kb.KB).AddInferred
			}
			return runMutation(opts.RootOptions, cmd, op, args, mutate)
		},
	}

	cmd.Flags().BoolVar(&opts.Inferred, "inferred", false, "flag the facts as inferred")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <triple>...",
		Short: "Delete facts from a model",
		Long: `Delete facts from a model. Every inferred fact in the knowledge base is
purged first, whether or not the given facts exist.

Example:
  kb delete "Rex owner Alice"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(rootOpts, cmd, "delete", args, (*kb.KB).Delete)
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <triple>...",
		Short: "Add facts to a model (alias of add)",
		Long: `Update behaves exactly like add. No previous value is replaced.

Example:
  kb update "Rex owner Bob"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(rootOpts, cmd, "update", args, (*kb.KB).Update)
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every fact from every model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			k, closeFn, err := rootOpts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			if err := k.Clear(commandContext(cmd)); err != nil {
				return f.Fail("clear failed", err)
			}
			return f.Success(MutationResult{Op: "clear"})
		},
	}
}

type mutationFunc func(k *kb.KB, ctx context.Context, triples []ir.Triple, model string) error

func runMutation(opts *RootOptions, cmd *cobra.Command, op string, args []string, mutate mutationFunc) error {
	f := opts.formatter(cmd)

	model, err := opts.writeModel()
	if err != nil {
		return f.Fail("invalid --model", err)
	}
	triples, err := ir.ParseTripleStrings(args)
	if err != nil {
		return f.Fail("invalid triple", err)
	}

	k, closeFn, err := opts.openKB()
	if err != nil {
		return f.Fail("failed to open database", err)
	}
	defer closeFn()

	if err := mutate(k, commandContext(cmd), triples, model); err != nil {
		return f.Fail(op+" failed", err)
	}
	return f.Success(MutationResult{Op: op, Model: model, Triples: len(triples)})
}
