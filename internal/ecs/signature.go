package ecs

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCaser = cases.Lower(language.Und)

// foldName case-folds a component type name for signature purposes, using
// golang.org/x/text's language-neutral (language.Und) lower-casing rather
// than strings.ToLower.
func foldName(name string) string {
	return foldCaser.String(name)
}

// Term is one element of a query spec: a positive or negated reference to a
// registered component type. Build terms with Positive[T] and Not[T].
type Term struct {
	id      TypeID
	name    string
	negated bool
}

// Positive builds a query term requiring T to be attached.
func Positive[T any](w *World) Term {
	id := RegisterComponent[T](w)
	ct := w.registry.byID[id]
	return Term{id: id, name: ct.foldedName, negated: false}
}

// Not builds a query term requiring T to be absent.
func Not[T any](w *World) Term {
	id := RegisterComponent[T](w)
	ct := w.registry.byID[id]
	return Term{id: id, name: ct.foldedName, negated: true}
}

// signature builds the canonical, order- and case-independent identifier
// for a set of terms: sorted positive names, then sorted negated names
// (prefixed with "!"), joined with a separator that cannot appear in a Go
// identifier so the two halves can never collide.
func signature(terms []Term) string {
	pos := make([]string, 0, len(terms))
	neg := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.negated {
			neg = append(neg, "!"+t.name)
		} else {
			pos = append(pos, t.name)
		}
	}
	sort.Strings(pos)
	sort.Strings(neg)
	return strings.Join(pos, ",") + "|" + strings.Join(neg, ",")
}

func splitTerms(terms []Term) (positive, negated []TypeID) {
	for _, t := range terms {
		if t.negated {
			negated = append(negated, t.id)
		} else {
			positive = append(positive, t.id)
		}
	}
	return
}
