// Package blocks models the visual program tree handed to the code generator.
//
// A Block has a type tag, inline literal fields, value slots (at most one
// child expression each), statement slots (the head of a chain of statement
// blocks linked through Next) and an item count for editor "mutations" that
// add positional slots (ADD0, ADD1, ...). The generator treats the tree as
// read-only.
package blocks

import "strconv"

// Type is a block-type tag as written by the editor (e.g. "lists_create_with").
type Type string

// Block is one node of a visual program.
type Block struct {
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Type       Type              `json:"type" yaml:"type"`
	Fields     map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Values     map[string]*Block `json:"values,omitempty" yaml:"values,omitempty"`
	Statements map[string]*Block `json:"statements,omitempty" yaml:"statements,omitempty"`
	Next       *Block            `json:"next,omitempty" yaml:"next,omitempty"`
	Items      int               `json:"items,omitempty" yaml:"items,omitempty"`
}

// Field returns the literal value of a field and whether it is present.
func (b *Block) Field(name string) (string, bool) {
	if b == nil || b.Fields == nil {
		return "", false
	}
	v, ok := b.Fields[name]
	return v, ok
}

// FieldOr returns the field value, or fallback when the field is absent.
func (b *Block) FieldOr(name, fallback string) string {
	if v, ok := b.Field(name); ok {
		return v
	}
	return fallback
}

// Value returns the child occupying a value slot, or nil.
func (b *Block) Value(slot string) *Block {
	if b == nil || b.Values == nil {
		return nil
	}
	return b.Values[slot]
}

// Statement returns the head of the chain occupying a statement slot, or nil.
func (b *Block) Statement(slot string) *Block {
	if b == nil || b.Statements == nil {
		return nil
	}
	return b.Statements[slot]
}

// Indexed returns the positional slot name prefix+i (e.g. "ADD2").
func Indexed(prefix string, i int) string {
	return prefix + strconv.Itoa(i)
}

// Walk visits b, its value and statement children, and its Next chain in
// depth-first order. Visiting stops early when fn returns false.
func Walk(b *Block, fn func(*Block) bool) bool {
	for cur := b; cur != nil; cur = cur.Next {
		if !fn(cur) {
			return false
		}
		for _, slot := range sortedKeys(cur.Values) {
			if !Walk(cur.Values[slot], fn) {
				return false
			}
		}
		for _, slot := range sortedKeys(cur.Statements) {
			if !Walk(cur.Statements[slot], fn) {
				return false
			}
		}
	}
	return true
}
