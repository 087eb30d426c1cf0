package blocks

// New starts a block of the given type. The With* methods mutate and return
// the same block so trees can be written inline:
//
//	blocks.New(blocks.ListsLength).WithValue("LIST", blocks.New(blocks.ListsCreateEmpty))
func New(t Type) *Block {
	return &Block{Type: t}
}

// WithID sets the block ID.
func (b *Block) WithID(id string) *Block {
	b.ID = id
	return b
}

// WithField sets a literal field.
func (b *Block) WithField(name, value string) *Block {
	if b.Fields == nil {
		b.Fields = make(map[string]string)
	}
	b.Fields[name] = value
	return b
}

// WithValue attaches child to a value slot.
func (b *Block) WithValue(slot string, child *Block) *Block {
	if b.Values == nil {
		b.Values = make(map[string]*Block)
	}
	b.Values[slot] = child
	return b
}

// WithStatement attaches the head of a statement chain to a statement slot.
func (b *Block) WithStatement(slot string, head *Block) *Block {
	if b.Statements == nil {
		b.Statements = make(map[string]*Block)
	}
	b.Statements[slot] = head
	return b
}

// WithItems sets the mutation item count.
func (b *Block) WithItems(n int) *Block {
	b.Items = n
	return b
}

// Chain links stmts through Next in order and returns the head.
func Chain(stmts ...*Block) *Block {
	var head, tail *Block
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if head == nil {
			head = s
		} else {
			tail.Next = s
		}
		tail = s
		for tail.Next != nil {
			tail = tail.Next
		}
	}
	return head
}
