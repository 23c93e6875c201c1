// Package category defines the fixed set of complaint categories the bot
// can generate report messages for, and the mapping from callback keys to
// their human-readable labels.
package category

// Category identifies one complaint type by its callback key.
type Category string

const (
	Spam       Category = "spam"
	Harassment Category = "harassment"
	Illegal    Category = "illegal"
	Unofficial Category = "unofficial"
	Malware    Category = "malware"
)

// labels maps each known category to the label shown on menu buttons and
// used as the reason framing in generation prompts.
var labels = map[Category]string{
	Spam:       "Spam report",
	Harassment: "Harassment/Threat",
	Illegal:    "Illegal content",
	Unofficial: "Use of unofficial apps",
	Malware:    "Sending malicious content / malware",
}

// order fixes menu ordering; map iteration order is not stable.
var order = []Category{Spam, Harassment, Illegal, Unofficial, Malware}

// All returns the known categories in menu order.
func All() []Category {
	out := make([]Category, len(order))
	copy(out, order)
	return out
}

// Label returns the human-readable label for a known category and false
// for an unknown one.
func Label(c Category) (string, bool) {
	l, ok := labels[c]
	return l, ok
}

// Resolve maps a callback key to the reason text used for generation.
// Unknown keys pass through unchanged so a stale or malformed token still
// produces a usable, if generic, prompt.
func Resolve(key string) string {
	if l, ok := labels[Category(key)]; ok {
		return l
	}
	return key
}

// Key returns the callback key for a category.
func (c Category) Key() string { return string(c) }

// String returns the category label, falling back to the raw key.
func (c Category) String() string { return Resolve(string(c)) }
