package basedb

import "strings"

// updatePolicy decides what a clause does with new text.
type updatePolicy int

const (
	// replacePolicy overwrites the clause's text
	replacePolicy updatePolicy = iota
	// accumulatePolicy appends to the clause's text
	accumulatePolicy
)

// clause is one piece of the statement state carried by the builder
// between chained calls.
type clause struct {
	policy updatePolicy
	def    string
	text   string
}

func newClause(policy updatePolicy, def string) clause {
	return clause{policy: policy, def: def, text: def}
}

// update applies new text according to the clause's policy.
func (c *clause) update(text string) {
	if c.policy == accumulatePolicy {
		c.text += text
	} else {
		c.text = text
	}
}

func (c *clause) reset() {
	c.text = c.def
}

func (c clause) blank() bool {
	return strings.TrimSpace(c.text) == ""
}

func (c clause) String() string {
	return c.text
}

// handleError receives an error value, and executes all of the session's
// error handlers with it.
func (s *session) handleError(err error) {
	for _, handler := range s.errHandlers {
		handler(err)
	}
}
