package bt

import (
	"strings"

	"github.com/cwbudde/go-rea/pkg/script"
	"github.com/cwbudde/go-rea/pkg/value"
)

// word is a symbol or variable occurrence with its source position.
type word struct {
	name string
	pos  script.Position
}

// matchDirective matches a directive whose first signature item is
// the given keyword. It returns the remaining signature items and
// the argument items.
func matchDirective(n *script.Node, keyword string) (sig, args []script.Item, ok bool) {
	signature, arguments, isDirective := n.Directive()
	if !isDirective || len(signature) == 0 {
		return nil, nil, false
	}
	head, isWord := signature[0].WordStr()
	if !isWord || head != keyword {
		return nil, nil, false
	}
	return signature[1:], arguments, true
}

// matchSym matches an item that is a valid symbol.
func matchSym(item *script.Item) (word, bool) {
	text, ok := item.WordStr()
	if !ok || !value.IsSymbolName(text) {
		return word{}, false
	}
	return word{name: text, pos: item.Pos}, true
}

// matchVar matches an item that is a valid variable.
func matchVar(item *script.Item) (word, bool) {
	text, ok := item.WordStr()
	if !ok || !value.IsVariableName(text) {
		return word{}, false
	}
	return word{name: text, pos: item.Pos}, true
}

// matchRef matches a reference: a leading symbol, optionally
// suffixed with '?' for query mode, followed by argument items.
func matchRef(items []script.Item) (name word, query bool, args []script.Item, ok bool) {
	if len(items) == 0 {
		return word{}, false, nil, false
	}
	text, isWord := items[0].WordStr()
	if !isWord {
		return word{}, false, nil, false
	}
	if stripped, hadSuffix := strings.CutSuffix(text, "?"); hadSuffix {
		if !value.IsSymbolName(stripped) {
			return word{}, false, nil, false
		}
		return word{name: stripped, pos: items[0].Pos}, true, items[1:], true
	}
	if !value.IsSymbolName(text) {
		return word{}, false, nil, false
	}
	return word{name: text, pos: items[0].Pos}, false, items[1:], true
}
