package codegen

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/errors"
)

// GenerationError identifies the block that aborted a pass.
type GenerationError struct {
	BlockID   string
	BlockType blocks.Type
	Slot      string // slot of the offending block in its parent; empty at top level
	Err       error  // underlying cause, usually wrapping a sentinel
}

// WrapBlock attaches block context to err unless an inner block already
// did.
func WrapBlock(b *blocks.Block, slot string, err error) error {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{
		BlockID:   b.ID,
		BlockType: b.Type,
		Slot:      slot,
		Err:       err,
	}
}

// Error implements error
func (e *GenerationError) Error() string {
	return e.formatPlain()
}

// Unwrap for errors.Is/As compatibility
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Hint suggests a fix for the underlying defect.
func (e *GenerationError) Hint() string {
	switch {
	case errors.Is(e.Err, errors.ErrUnknownBlockType):
		return "remove the block or upgrade blockgen to a version that supports it"
	case errors.Is(e.Err, errors.ErrUnresolvedName):
		return "declare the name before it is used, or remove the dangling reference"
	case errors.Is(e.Err, errors.ErrMalformedField):
		return "check the block's field values in the editor"
	}
	if hints := errors.GetAllHints(e.Err); len(hints) > 0 {
		return hints[0]
	}
	return ""
}

func (e *GenerationError) location() string {
	loc := fmt.Sprintf("block %s (%s)", e.BlockID, e.BlockType)
	if e.Slot != "" {
		loc += " in slot " + e.Slot
	}
	return loc
}

func (e *GenerationError) formatPlain() string {
	return fmt.Sprintf("%s: %v", e.location(), e.Err)
}

// FormatTerminal renders the error with colors for the CLI.
func (e *GenerationError) FormatTerminal() string {
	var sb strings.Builder
	sb.WriteString(pterm.Red(fmt.Sprintf("generation failed: %v", e.Err)))
	sb.WriteString("\n\n")
	sb.WriteString(pterm.LightCyan("Context:"))
	sb.WriteString(fmt.Sprintf("\n  %s %s", pterm.Yellow("Block:"), e.BlockID))
	sb.WriteString(fmt.Sprintf("\n  %s %s", pterm.Yellow("Type:"), e.BlockType))
	if e.Slot != "" {
		sb.WriteString(fmt.Sprintf("\n  %s %s", pterm.Yellow("Slot:"), e.Slot))
	}
	if hint := e.Hint(); hint != "" {
		sb.WriteString(fmt.Sprintf("\n\n%s\n  %s", pterm.Green("Hint:"), hint))
	}
	return sb.String()
}

// UnknownBlockType returns the error templates report for an unsupported tag.
func UnknownBlockType(t blocks.Type) error {
	return errors.Wrapf(errors.ErrUnknownBlockType, "%q", string(t))
}
