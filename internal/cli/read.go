package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/minikb/internal/ir"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Vars []string
}

// NewHasCommand creates the has command.
func NewHasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "has <pattern>...",
		Short: "Check whether patterns have a joint solution",
		Long: `Check whether the conjunction of patterns has at least one solution in
the read models. Exits with status 1 when it has none.

Example:
  kb has "?x type Dog" "?x owner Alice"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			patterns, err := ir.ParseTripleStrings(args)
			if err != nil {
				return f.Fail("invalid pattern", err)
			}

			k, closeFn, err := rootOpts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			ok, err := k.Has(commandContext(cmd), patterns, rootOpts.readModels())
			if err != nil {
				return f.Fail("has failed", err)
			}
			if err := f.Success(AnswerResult{Answer: ok}); err != nil {
				return err
			}
			if !ok {
				return NewExitError(ExitFailure, "patterns have no solution")
			}
			return nil
		},
	}
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query --var <name>... <pattern>...",
		Short: "List the distinct bindings satisfying every pattern",
		Long: `List the distinct tuples of the requested variables that satisfy every
pattern in the read models, in lexicographic order.

Example:
  kb query --var x "?x type Dog" "?x owner Alice"
  kb query --var x --var o "?x owner ?o"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			patterns, err := ir.ParseTripleStrings(args)
			if err != nil {
				return f.Fail("invalid pattern", err)
			}

			k, closeFn, err := opts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			rows, err := k.Query(commandContext(cmd), opts.Vars, patterns, opts.readModels())
			if err != nil {
				return f.Fail("query failed", err)
			}
			vars := opts.Vars
			if vars == nil {
				vars = []string{}
			}
			return f.Success(RowsResult{Vars: vars, Rows: rows})
		},
	}

	cmd.Flags().StringArrayVar(&opts.Vars, "var", nil, "variable to project, with or without \"?\" (repeatable)")

	return cmd
}

// NewHasStmtCommand creates the has-stmt command.
func NewHasStmtCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "has-stmt <triple>",
		Short: "Check whether an exact fact exists",
		Long: `Check whether an exact ground fact exists in any read model.
Exits with status 1 when it does not.

Example:
  kb has-stmt "Rex type Dog"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			t, err := ir.ParseTripleString(args[0])
			if err != nil {
				return f.Fail("invalid triple", err)
			}

			k, closeFn, err := rootOpts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			ok, err := k.HasStmt(commandContext(cmd), t, rootOpts.readModels())
			if err != nil {
				return f.Fail("has-stmt failed", err)
			}
			if err := f.Success(AnswerResult{Answer: ok}); err != nil {
				return err
			}
			if !ok {
				return NewExitError(ExitFailure, "statement not found")
			}
			return nil
		},
	}
}

// ClassesOfOptions holds flags for the classesof command.
type ClassesOfOptions struct {
	*RootOptions
	Direct bool
}

// NewAboutCommand creates the about command.
func NewAboutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "about <resource>",
		Short: "List every fact mentioning a resource",
		Long: `List every fact in the read models in which the resource appears as
subject, predicate or object.

Example:
  kb about Rex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			k, closeFn, err := rootOpts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			triples, err := k.About(commandContext(cmd), args[0], rootOpts.readModels())
			if err != nil {
				return f.Fail("about failed", err)
			}
			rows := make([][]string, 0, len(triples))
			for _, t := range triples {
				rows = append(rows, t.Strings())
			}
			return f.Success(TriplesResult{Triples: rows})
		},
	}
}

// NewClassesOfCommand creates the classesof command.
func NewClassesOfCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassesOfOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classesof <concept>",
		Short: "List the rdf:type classes of a concept",
		Long: `List the objects of rdf:type facts about a concept. With --direct, only
asserted facts count; inferred classes are left out.

Example:
  kb classesof Rex
  kb classesof --direct Rex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			k, closeFn, err := opts.openKB()
			if err != nil {
				return f.Fail("failed to open database", err)
			}
			defer closeFn()

			classes, err := k.ClassesOf(commandContext(cmd), args[0], opts.Direct, opts.readModels())
			if err != nil {
				return f.Fail("classesof failed", err)
			}
			return f.Success(ClassesResult{Concept: args[0], Direct: opts.Direct, Classes: classes})
		},
	}

	cmd.Flags().BoolVar(&opts.Direct, "direct", false, "only asserted rdf:type facts")

	return cmd
}
