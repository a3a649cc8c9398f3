package category

import "strings"

// #region category

// Category is the routing class assigned to an email.
type Category string

const (
	Complaint      Category = "complaint"
	Inquiry        Category = "inquiry"
	Feedback       Category = "feedback"
	SupportRequest Category = "support_request"
	Other          Category = "other"
)

var all = []Category{Complaint, Inquiry, Feedback, SupportRequest, Other}

// All returns every valid category in a fixed order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, k := range all {
		if c == k {
			return true
		}
	}
	return false
}

// #endregion category

// #region parse

// Normalize lowercases model output and strips surrounding whitespace and trailing periods.
func Normalize(raw string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), ".")
}

// Parse normalizes raw model output and reports whether it names a valid category.
func Parse(raw string) (Category, bool) {
	c := Category(Normalize(raw))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// #endregion parse

// #region instructions

// Instructions holds the category-specific guidance given to the response prompt.
var Instructions = map[Category]string{
	Complaint:      "Apologize sincerely, offer a resolution, and ask for any additional details.",
	Inquiry:        "Provide a clear, helpful answer. Offer further assistance if needed.",
	Feedback:       "Thank the customer and explain how their feedback is valued.",
	SupportRequest: "Acknowledge the issue and inform that a support ticket has been created.",
	Other:          "Respond politely and offer to assist further if needed.",
}

// #endregion instructions
