package email

import (
	"bytes"
	_ "embed"
)

//go:embed samples/emails.json
var samplesJSON []byte

// Samples returns the built-in demonstration emails.
func Samples() []Email {
	emails, err := Decode(bytes.NewReader(samplesJSON), FormatJSON)
	if err != nil {
		panic("email: embedded samples are invalid: " + err.Error())
	}
	return emails
}
