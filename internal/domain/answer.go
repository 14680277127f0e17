// Package domain contains core domain types for the Avika assessment.
package domain

import "strings"

// Letter is a multiple-choice option label.
type Letter string

// Option letters, in rank order.
const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Letters lists every valid option letter in rank order.
var Letters = []Letter{LetterA, LetterB, LetterC, LetterD}

// ParseLetter normalizes s and reports whether it names a valid option.
func ParseLetter(s string) (Letter, bool) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Valid reports whether l is one of A, B, C or D.
func (l Letter) Valid() bool {
	switch l {
	case LetterA, LetterB, LetterC, LetterD:
		return true
	}
	return false
}

// Score maps A..D onto 4..1. Invalid letters score 0.
func (l Letter) Score() int {
	if !l.Valid() {
		return 0
	}
	return int('D'-l[0]) + 1
}

// Source records who produced an answer.
type Source string

const (
	SourceUser      Source = "user"
	SourceAssistant Source = "assistant"
)

// Answer is a recorded response to one question.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Letter     Letter `json:"answer"`
	Source     Source `json:"source"`
}
