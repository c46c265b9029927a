package analysis

// Kind classifies how a backend call concluded. Every call resolves to
// exactly one of the three kinds.
type Kind int

const (
	// Success means the call completed and the backend returned a payload.
	Success Kind = iota
	// ApplicationError means the call completed but the backend reported
	// a failure in its response body.
	ApplicationError
	// TransportError means the call never completed: network failure,
	// timeout, or a response that could not be parsed.
	TransportError
)

// Outcome is the uniform three-way result of a backend call. Callers decide
// the UI consequences; the client itself never mutates session state.
type Outcome[T any] struct {
	Kind    Kind
	Payload T
	Message string
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool {
	return o.Kind == Success
}

func ok[T any](payload T) Outcome[T] {
	return Outcome[T]{Kind: Success, Payload: payload}
}

func appError[T any](message string) Outcome[T] {
	return Outcome[T]{Kind: ApplicationError, Message: message}
}

func transportError[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: TransportError, Message: err.Error()}
}
