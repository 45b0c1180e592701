package history

// ErrNotFound is returned when an invocation doesn't exist in the store.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	if e.ID == "" {
		return "invocation not found"
	}

	return "invocation not found: " + e.ID
}
