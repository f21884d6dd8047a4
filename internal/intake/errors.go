package intake

// FieldErrors collects validation messages keyed by field name. Fields keep
// their insertion order and each field keeps its messages in the order they
// were added, so callers can render them as-is.
type FieldErrors struct {
	order []string
	errs  map[string][]string
}

// NewFieldErrors returns an empty error collection.
func NewFieldErrors() *FieldErrors {
	return &FieldErrors{errs: make(map[string][]string)}
}

// Add appends a message to the given field.
func (e *FieldErrors) Add(field, message string) {
	if _, ok := e.errs[field]; !ok {
		e.order = append(e.order, field)
	}
	e.errs[field] = append(e.errs[field], message)
}

// On returns the messages recorded for a field, in insertion order.
func (e *FieldErrors) On(field string) []string {
	return e.errs[field]
}

// Fields returns the field names in the order they first received an error.
func (e *FieldErrors) Fields() []string {
	return e.order
}

// Valid reports whether no errors were recorded.
func (e *FieldErrors) Valid() bool {
	return e == nil || len(e.errs) == 0
}

// Len returns the total number of messages across all fields.
func (e *FieldErrors) Len() int {
	n := 0
	for _, msgs := range e.errs {
		n += len(msgs)
	}
	return n
}

// ByField returns a field → messages mapping suitable for JSON responses.
func (e *FieldErrors) ByField() map[string][]string {
	out := make(map[string][]string, len(e.errs))
	for field, msgs := range e.errs {
		out[field] = append([]string(nil), msgs...)
	}
	return out
}
