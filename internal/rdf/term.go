// Package rdf provides the statement and graph model the crawler accumulates
// into, plus Turtle serialization of the final result.
package rdf

import "fmt"

// TermKind identifies the type of a term.
type TermKind uint8

const (
	// TermIRI is an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode is a blank node term.
	TermBlankNode
	// TermLiteral is a literal term.
	TermLiteral
)

// Term is a value that can appear in a statement.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI is an IRI term.
type IRI struct {
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode is a blank node term.
type BlankNode struct {
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal is a literal term with optional datatype and language tag.
type Literal struct {
	Lexical  string
	Datatype string
	Lang     string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns an N-Triples style rendering of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is one (subject, predicate, object) statement.
type Triple struct {
	S Term
	P IRI
	O Term
}

// String renders the triple in N-Triples member order.
func (t Triple) String() string {
	return fmt.Sprintf("%s <%s> %s", termKey(t.S), t.P.Value, termKey(t.O))
}

// termKey renders a term unambiguously for set keys and diagnostics.
func termKey(t Term) string {
	if t == nil {
		return "<nil>"
	}
	if iri, ok := t.(IRI); ok {
		return "<" + iri.Value + ">"
	}
	return t.String()
}
