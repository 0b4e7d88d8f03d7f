package rdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// EncodeTurtle writes the graph as Turtle. The prefixes map (prefix label to
// namespace IRI) is emitted as an @prefix header and used to compact IRIs.
// Output is deterministic: prefixes and triples are written in sorted order.
func EncodeTurtle(w io.Writer, g *Graph, prefixes map[string]string) error {
	bw := bufio.NewWriter(w)

	labels := make([]string, 0, len(prefixes))
	for label := range prefixes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if _, err := fmt.Fprintf(bw, "@prefix %s: <%s> .\n", label, escapeIRI(prefixes[label])); err != nil {
			return fmt.Errorf("write prefix %s: %w", label, err)
		}
	}
	if len(labels) > 0 {
		if _, err := fmt.Fprintln(bw); err != nil {
			return fmt.Errorf("write prefix separator: %w", err)
		}
	}

	for _, t := range g.Triples() {
		line := fmt.Sprintf("%s %s %s .\n",
			encodeTerm(t.S, prefixes),
			encodeTerm(t.P, prefixes),
			encodeTerm(t.O, prefixes),
		)
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("write triple: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush turtle output: %w", err)
	}
	return nil
}

func encodeTerm(t Term, prefixes map[string]string) string {
	switch v := t.(type) {
	case IRI:
		return encodeIRI(v.Value, prefixes)
	case BlankNode:
		return "_:" + v.ID
	case Literal:
		return encodeLiteral(v, prefixes)
	default:
		return "<>"
	}
}

// encodeIRI compacts the IRI against the longest matching prefix binding when
// the remainder is a safe local name, and falls back to the <...> form.
func encodeIRI(iri string, prefixes map[string]string) string {
	bestLabel, bestNS := "", ""
	for label, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && label < bestLabel) {
			bestLabel, bestNS = label, ns
		}
	}
	if bestNS != "" {
		local := iri[len(bestNS):]
		if safeLocalName(local) {
			return bestLabel + ":" + local
		}
	}
	return "<" + escapeIRI(iri) + ">"
}

func encodeLiteral(l Literal, prefixes map[string]string) string {
	quoted := `"` + escapeLiteral(l.Lexical) + `"`
	if l.Lang != "" {
		return quoted + "@" + l.Lang
	}
	if l.Datatype != "" && l.Datatype != "http://www.w3.org/2001/XMLSchema#string" {
		return quoted + "^^" + encodeIRI(l.Datatype, prefixes)
	}
	return quoted
}

func safeLocalName(local string) bool {
	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-':
		case r == '.':
			if i == 0 || i == len(local)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeIRI(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '<' || r == '>' || r == '"' || r == '{' || r == '}' || r == '|' || r == '^' || r == '`' || r == '\\':
			b.WriteString(fmt.Sprintf("\\u%04X", r))
		case r <= 0x20:
			b.WriteString(fmt.Sprintf("\\u%04X", r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
