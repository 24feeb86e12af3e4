package post

import (
	"strings"
	"unicode/utf8"
)

const (
	titleMinLen = 3
	titleMaxLen = 200
)

// Violation describes a single failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type rule struct {
	field   string
	ok      func() bool
	message string
}

func check(rules []rule) []Violation {
	var out []Violation
	for _, r := range rules {
		if !r.ok() {
			out = append(out, Violation{Field: r.field, Message: r.message})
		}
	}
	return out
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func contentRules(title, body string) []rule {
	return []rule{
		{"title", func() bool { return !blank(title) }, "title is required"},
		{"title", func() bool {
			if blank(title) {
				return true // covered by the required rule
			}
			n := utf8.RuneCountInString(title)
			return n >= titleMinLen && n <= titleMaxLen
		}, "title must be between 3 and 200 characters"},
		{"body", func() bool { return !blank(body) }, "body is required"},
	}
}

// Validate checks the create request against its field constraints and
// returns every violation found.
func (r CreateRequest) Validate() []Violation {
	return check(contentRules(r.Title, r.Body))
}

// Validate checks the update request body fields. The id-matches-path
// constraint is enforced by the service, which knows the path parameter.
func (r UpdateRequest) Validate() []Violation {
	return check(contentRules(r.Title, r.Body))
}
