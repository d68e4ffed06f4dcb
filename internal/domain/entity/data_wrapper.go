package entity

import "time"

// FetchState is the lifecycle stage of a DataWrapper.
type FetchState uint8

const (
	StateIdle FetchState = iota
	StateFetching
	StateLoaded
	StateFailed
)

// DataWrapper holds the result of an asynchronous fetch. The constructors keep
// the states exclusive: data is only set when loaded, error only when failed.
type DataWrapper[T any] struct {
	State      FetchState `json:"-"`
	IsFetching bool       `json:"isFetching"`
	Data       *T         `json:"data"`
	Error      string     `json:"error,omitempty"`
	ReceivedAt *time.Time `json:"receivedAt"`
}

func Idle[T any]() DataWrapper[T] {
	return DataWrapper[T]{State: StateIdle}
}

func Fetching[T any]() DataWrapper[T] {
	return DataWrapper[T]{State: StateFetching, IsFetching: true}
}

func Loaded[T any](data T, at time.Time) DataWrapper[T] {
	return DataWrapper[T]{State: StateLoaded, Data: &data, ReceivedAt: &at}
}

func Failed[T any](msg string, at time.Time) DataWrapper[T] {
	return DataWrapper[T]{State: StateFailed, Error: msg, ReceivedAt: &at}
}

// Value returns the loaded data or the zero value.
func (w DataWrapper[T]) Value() T {
	if w.Data == nil {
		var zero T
		return zero
	}
	return *w.Data
}
