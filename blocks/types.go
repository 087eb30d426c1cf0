package blocks

// Lists
const (
	ListsCreateEmpty    Type = "lists_create_empty"
	ListsCreateWith     Type = "lists_create_with"
	ListsRepeat         Type = "lists_repeat"
	ListsLength         Type = "lists_length"
	ListsIsEmpty        Type = "lists_is_empty"
	ListsIndexOf        Type = "lists_indexOf"
	ListsPositionIn     Type = "lists_position_in"
	ListsGetIndex       Type = "lists_getIndex"
	ListsSetIndex       Type = "lists_setIndex"
	ListsSelectItem     Type = "lists_select_item"
	ListsReplaceItem    Type = "lists_replace_item"
	ListsAddItems       Type = "lists_add_items"
	ListsInsertItem     Type = "lists_insert_item"
	ListsRemoveItem     Type = "lists_remove_item"
	ListsAppendList     Type = "lists_append_list"
	ListsCopy           Type = "lists_copy"
	ListsIsIn           Type = "lists_is_in"
	ListsPickRandomItem Type = "lists_pick_random_item"
	ListsIsList         Type = "lists_is_list"
)

// Text
const (
	Text             Type = "text"
	TextJoin         Type = "text_join"
	TextAppend       Type = "text_append"
	TextLength       Type = "text_length"
	TextIsEmpty      Type = "text_isEmpty"
	TextEndString    Type = "text_endString"
	TextIndexOf      Type = "text_indexOf"
	TextStartsAt     Type = "text_starts_at"
	TextStartsWith   Type = "text_starts_with"
	TextCharAt       Type = "text_charAt"
	TextChangeCase   Type = "text_changeCase"
	TextPrint        Type = "text_print"
	TextPrompt       Type = "text_prompt"
	TextCompare      Type = "text_compare"
	TextTrim         Type = "text_trim"
	TextContains     Type = "text_contains"
	TextSplitAtSpace Type = "text_split_at_spaces"
	TextSegment      Type = "text_segment"
	TextReplaceAll   Type = "text_replace_all"
)

// Variables
const (
	VariablesGet               Type = "variables_get"
	VariablesSet               Type = "variables_set"
	GlobalDeclaration          Type = "global_declaration"
	LexicalVariableGet         Type = "lexical_variable_get"
	LexicalVariableSet         Type = "lexical_variable_set"
	LocalDeclarationStatement  Type = "local_declaration_statement"
	LocalDeclarationExpression Type = "local_declaration_expression"
)

// Math, logic and control
const (
	MathNumber      Type = "math_number"
	MathArithmetic  Type = "math_arithmetic"
	LogicBoolean    Type = "logic_boolean"
	LogicNull       Type = "logic_null"
	LogicNegate     Type = "logic_negate"
	LogicOperation  Type = "logic_operation"
	LogicCompare    Type = "logic_compare"
	ControlsIf      Type = "controls_if"
	ControlsForEach Type = "controls_forEach"
)

// Procedures
const (
	ProceduresDefNoReturn  Type = "procedures_defnoreturn"
	ProceduresDefReturn    Type = "procedures_defreturn"
	ProceduresCallNoReturn Type = "procedures_callnoreturn"
	ProceduresCallReturn   Type = "procedures_callreturn"
)

// statementTypes are the block types that sit in statement chains rather
// than value slots.
var statementTypes = map[Type]bool{
	ListsSetIndex:             true,
	ListsReplaceItem:          true,
	ListsAddItems:             true,
	ListsInsertItem:           true,
	ListsRemoveItem:           true,
	ListsAppendList:           true,
	TextAppend:                true,
	TextPrint:                 true,
	VariablesSet:              true,
	GlobalDeclaration:         true,
	LexicalVariableSet:        true,
	LocalDeclarationStatement: true,
	ControlsIf:                true,
	ControlsForEach:           true,
	ProceduresDefNoReturn:     true,
	ProceduresDefReturn:       true,
	ProceduresCallNoReturn:    true,
}

// IsStatement reports whether blocks of type t render as statements.
func (t Type) IsStatement() bool {
	return statementTypes[t]
}

// IsDeclaration reports whether t introduces a top-level name (a global
// variable or a procedure) that is visible to the whole program.
func (t Type) IsDeclaration() bool {
	switch t {
	case GlobalDeclaration, ProceduresDefNoReturn, ProceduresDefReturn:
		return true
	}
	return false
}
