package script

import (
	"fmt"
	"strconv"
	"strings"
)

// ItemKind discriminates the variants of an Item.
type ItemKind int

const (
	// ItemWord is a bare word: a symbol, a variable, or any other
	// run of non-reserved characters. Classification of words into
	// symbols and variables happens in the compiler, not here.
	ItemWord ItemKind = iota
	// ItemInt is an integer literal.
	ItemInt
	// ItemFloat is a floating-point literal.
	ItemFloat
	// ItemBrackets is a bracketed group "[ ... ]" of nested items.
	ItemBrackets
)

// Item is a single token of a content line. Exactly one of the value
// fields is meaningful, selected by Kind.
type Item struct {
	Kind  ItemKind
	Word  string
	Int   int64
	Float float64
	Items []Item
	Pos   Position
}

// WordStr returns the word text if the item is a word.
func (it *Item) WordStr() (string, bool) {
	if it.Kind == ItemWord {
		return it.Word, true
	}
	return "", false
}

// String renders the item in source form.
func (it *Item) String() string {
	switch it.Kind {
	case ItemWord:
		return it.Word
	case ItemInt:
		return strconv.FormatInt(it.Int, 10)
	case ItemFloat:
		return strconv.FormatFloat(it.Float, 'g', -1, 64)
	case ItemBrackets:
		var sb strings.Builder
		sb.WriteByte('[')
		for i := range it.Items {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(it.Items[i].String())
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return fmt.Sprintf("<item kind %d>", int(it.Kind))
	}
}

func formatItems(items []Item) string {
	parts := make([]string, len(items))
	for i := range items {
		parts[i] = items[i].String()
	}
	return strings.Join(parts, " ")
}
