package rules

import "fmt"

// ParseError is the single error kind produced by the configuration parser.
// Location is the word source's description of where the offending word was
// read, e.g. "line 3 of file 'rules.pro'".
type ParseError struct {
	Message  string
	Token    string
	Location string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Location)
	}
	return fmt.Sprintf("%s before %q (%s)", e.Message, e.Token, e.Location)
}
