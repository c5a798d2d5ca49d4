package email

import "strconv"

// Body is the content of a mail. The set of variants is closed:
// PlaintextBody and HTMLBody (as values or pointers).
type Body interface {
	isBody()
}

// PlaintextBody is a text/plain body used as is.
type PlaintextBody struct {
	Text string
}

// HTMLBody is a text/html body. Senders derive a plain-text alternative
// from it with HTMLToText.
type HTMLBody struct {
	HTML string
}

func (PlaintextBody) isBody() {}
func (HTMLBody) isBody()      {}

// RecipientType tags a recipient as To, Cc or Bcc.
type RecipientType int

const (
	RecipientTo RecipientType = iota
	RecipientCc
	RecipientBcc
)

func (t RecipientType) String() string {
	switch t {
	case RecipientTo:
		return "to"
	case RecipientCc:
		return "cc"
	case RecipientBcc:
		return "bcc"
	default:
		return "RecipientType(" + strconv.Itoa(int(t)) + ")"
	}
}
