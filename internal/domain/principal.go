package domain

// Principal is the identity resolved from a caller's credentials for a single
// request. It is passed explicitly into every service call; a nil *Principal
// means the caller is anonymous.
type Principal struct {
	ID      int64
	Name    string
	DueDate *Date
}
