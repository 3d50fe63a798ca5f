package process

import (
	"github.com/viant/parsly"
)

const (
	blankCode = iota + 1
	separatorCode
	commentCode
	keywordCode
	argumentCode
)

var (
	blankToken     = parsly.NewToken(blankCode, "Blank", &blankMatcher{})
	separatorToken = parsly.NewToken(separatorCode, "Separator", &separatorMatcher{})
	commentToken   = parsly.NewToken(commentCode, "Comment", &commentMatcher{})
	keywordToken   = parsly.NewToken(keywordCode, "Action", &keywordMatcher{})
	argumentToken  = parsly.NewToken(argumentCode, "Argument", &argumentMatcher{})
)

// blankMatcher matches spaces and tabs, not newlines: a newline ends a
// statement.
type blankMatcher struct{}

func (m *blankMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if !isBlank(cursor.Input[i]) {
			break
		}
		matched++
	}
	return matched
}

type separatorMatcher struct{}

func (m *separatorMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos < cursor.InputSize && isSeparator(cursor.Input[cursor.Pos]) {
		return 1
	}
	return 0
}

// commentMatcher matches '#' up to the end of the line.
type commentMatcher struct{}

func (m *commentMatcher) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize || cursor.Input[cursor.Pos] != '#' {
		return 0
	}
	matched := 1
	for i := cursor.Pos + 1; i < cursor.InputSize && cursor.Input[i] != '\n'; i++ {
		matched++
	}
	return matched
}

type keywordMatcher struct{}

func (m *keywordMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if !isLetter(cursor.Input[i]) {
			break
		}
		matched++
	}
	return matched
}

type argumentMatcher struct{}

func (m *argumentMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		c := cursor.Input[i]
		if isBlank(c) || isSeparator(c) || c == '#' {
			break
		}
		matched++
	}
	return matched
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}

func isSeparator(c byte) bool {
	return c == ';' || c == '\n'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
