package loader

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minikb/internal/ir"
)

// Document is a set of graphs to load.
type Document struct {
	Graphs []Graph `yaml:"graphs" json:"graphs"`
}

// Graph holds the triples of one model. An empty model means
// ir.DefaultModel.
type Graph struct {
	Model    string  `yaml:"model,omitempty" json:"model,omitempty"`
	Asserted Triples `yaml:"asserted,omitempty" json:"asserted,omitempty"`
	Inferred Triples `yaml:"inferred,omitempty" json:"inferred,omitempty"`
}

// Triples is a list of [subject, predicate, object] rows.
type Triples [][]string

// MarshalYAML writes each row in flow style so dumps stay one fact per line.
func (ts Triples) MarshalYAML() (interface{}, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range ts {
		node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range row {
			scalar := &yaml.Node{}
			scalar.SetString(v)
			node.Content = append(node.Content, scalar)
		}
		seq.Content = append(seq.Content, node)
	}
	return seq, nil
}

// Parse converts each row into a ground triple. A row with other than three
// terms, or with a variable, is InvalidArgument.
func (ts Triples) Parse() ([]ir.Triple, error) {
	triples := make([]ir.Triple, 0, len(ts))
	for i, row := range ts {
		t, err := ir.ParseTriple(row...)
		if err != nil {
			return nil, fmt.Errorf("triple %d: %w", i, err)
		}
		if err := t.ValidateGround("load"); err != nil {
			return nil, fmt.Errorf("triple %d: %w", i, err)
		}
		triples = append(triples, t)
	}
	return triples, nil
}

// Validate checks every triple of every graph.
func (d *Document) Validate() error {
	for i, g := range d.Graphs {
		if _, err := g.Asserted.Parse(); err != nil {
			return fmt.Errorf("graph %d (%s) asserted: %w", i, ir.ModelOrDefault(g.Model), err)
		}
		if _, err := g.Inferred.Parse(); err != nil {
			return fmt.Errorf("graph %d (%s) inferred: %w", i, ir.ModelOrDefault(g.Model), err)
		}
	}
	return nil
}

// Count returns the number of triples in the document.
func (d *Document) Count() int {
	n := 0
	for _, g := range d.Graphs {
		n += len(g.Asserted) + len(g.Inferred)
	}
	return n
}

// FromStatements groups statements into one graph per model, in model
// order. Statement order within a model is preserved.
func FromStatements(statements []ir.Statement) Document {
	byModel := make(map[string]*Graph)
	var models []string

	for _, st := range statements {
		g, ok := byModel[st.Model]
		if !ok {
			g = &Graph{Model: st.Model}
			byModel[st.Model] = g
			models = append(models, st.Model)
		}
		row := []string{st.Subject.Value(), st.Predicate.Value(), st.Object.Value()}
		if st.Inferred {
			g.Inferred = append(g.Inferred, row)
		} else {
			g.Asserted = append(g.Asserted, row)
		}
	}

	sort.Strings(models)
	doc := Document{Graphs: make([]Graph, 0, len(models))}
	for _, m := range models {
		doc.Graphs = append(doc.Graphs, *byModel[m])
	}
	return doc
}
