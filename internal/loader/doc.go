// Package loader reads fact documents into statements.
//
// A fact document lists graphs. Each graph names a model and carries
// asserted and inferred triples, each triple a [subject, predicate, object]
// list of constants:
//
//	graphs:
//	  - model: zoo
//	    asserted:
//	      - [Rex, rdf:type, Dog]
//	      - [Rex, owner, Alice]
//	    inferred:
//	      - [Rex, rdf:type, Animal]
//
// Documents may be written as YAML (.yaml, .yml, .json) or CUE (.cue). CUE
// documents are unified with a closed schema before decoding, so arity and
// field-name mistakes are reported with their source position.
package loader
