package book

// Result classifies what a Service operation did.
type Result int

const (
	ResultCreated Result = iota + 1
	ResultUpdated
	ResultDeleted
	ResultFound
	ResultEmpty
	ResultNotFound
	ResultBadInput
	ResultInvalid
	ResultConflict
)

func (r Result) String() string {
	switch r {
	case ResultCreated:
		return "created"
	case ResultUpdated:
		return "updated"
	case ResultDeleted:
		return "deleted"
	case ResultFound:
		return "found"
	case ResultEmpty:
		return "empty"
	case ResultNotFound:
		return "not_found"
	case ResultBadInput:
		return "bad_input"
	case ResultInvalid:
		return "invalid"
	case ResultConflict:
		return "conflict"
	}
	return "unknown"
}

// Outcome is the transport-independent result of a Service operation.
// Only the fields relevant to Result are set.
type Outcome struct {
	Result Result
	// Book is set for Created, Updated and single-book Found.
	Book Book
	// Books is set for list Found.
	Books []Book
	// Message is set for Invalid.
	Message string
	// ISBN is the canonical ISBN that caused a Conflict.
	ISBN string
}

func created(b Book) Outcome {
	return Outcome{Result: ResultCreated, Book: b}
}

func updated(b Book) Outcome {
	return Outcome{Result: ResultUpdated, Book: b}
}

func deleted() Outcome {
	return Outcome{Result: ResultDeleted}
}

func found(b Book) Outcome {
	return Outcome{Result: ResultFound, Book: b}
}

func empty() Outcome {
	return Outcome{Result: ResultEmpty}
}

func notFound() Outcome {
	return Outcome{Result: ResultNotFound}
}

func badInput() Outcome {
	return Outcome{Result: ResultBadInput}
}

func invalid(msg string) Outcome {
	return Outcome{Result: ResultInvalid, Message: msg}
}

func conflict(isbn string) Outcome {
	return Outcome{Result: ResultConflict, ISBN: isbn}
}

func foundList(books []Book) Outcome {
	if books == nil {
		books = []Book{}
	}
	return Outcome{Result: ResultFound, Books: books}
}
