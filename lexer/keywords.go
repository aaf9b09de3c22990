package lexer

import (
	"fmt"
	"sort"

	"github.com/pontaoski/redstone/types"
)

// Roles maps the role names used in configuration files to token kinds.
var Roles = map[string]types.TokenKind{
	"var":      types.VAR,
	"const":    types.CONST,
	"if":       types.IF,
	"else":     types.ELSE,
	"while":    types.WHILE,
	"for":      types.FOR,
	"function": types.FUNC,
	"return":   types.RETURN,
	"break":    types.BREAK,
	"continue": types.CONTINUE,
	"null":     types.NULL,
	"true":     types.TRUE,
	"false":    types.FALSE,
}

// Keywords maps reserved spellings to their token kinds.
type Keywords map[string]types.TokenKind

func DefaultKeywords() Keywords {
	return Keywords{
		"item":       types.VAR,
		"bedrock":    types.CONST,
		"comparator": types.IF,
		"else":       types.ELSE,
		"repeater":   types.WHILE,
		"hopper":     types.FOR,
		"craft":      types.FUNC,
		"dispense":   types.RETURN,
		"cut":        types.BREAK,
		"skip":       types.CONTINUE,
		"air":        types.NULL,
		"on":         types.TRUE,
		"off":        types.FALSE,
	}
}

func (k Keywords) Lookup(word string) (types.TokenKind, bool) {
	kind, ok := k[word]
	return kind, ok
}

// Spelling returns the word that produces kind, or the kind's name when the
// table has no entry for it.
func (k Keywords) Spelling(kind types.TokenKind) string {
	for word, kd := range k {
		if kd == kind {
			return word
		}
	}
	return kind.String()
}

// Override returns a copy of the table with the spellings of the given roles
// replaced. The result must still map every role to exactly one spelling.
func (k Keywords) Override(overrides map[string]string) (Keywords, error) {
	byKind := map[types.TokenKind]string{}
	for word, kind := range k {
		byKind[kind] = word
	}

	roles := make([]string, 0, len(overrides))
	for role := range overrides {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		kind, ok := Roles[role]
		if !ok {
			return nil, fmt.Errorf("unknown keyword role %q", role)
		}
		word := overrides[role]
		if !validIdentifier(word) {
			return nil, fmt.Errorf("keyword %q for role %q is not a valid identifier", word, role)
		}
		byKind[kind] = word
	}

	out := Keywords{}
	for kind, word := range byKind {
		if other, dup := out[word]; dup {
			return nil, fmt.Errorf("keyword %q is used for both %s and %s", word, other, kind)
		}
		out[word] = kind
	}

	return out, nil
}

func validIdentifier(s string) bool {
	if s == "" || !firstChar(rune(s[0])) {
		return false
	}
	for _, r := range s {
		if !otherChar(r) {
			return false
		}
	}
	return true
}
