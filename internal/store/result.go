package store

import (
	"errors"

	"github.com/deviro/influencer-post-tracker/internal/gateway"
	"github.com/deviro/influencer-post-tracker/internal/models"
)

// Result is the uniform envelope every store action resolves with, mirroring
// what the gateway produces. The caller never needs to inspect store
// internals to know whether an action succeeded.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`

	kind gateway.Kind
}

// Kind reports the failure classification; KindUnknown for successes.
func (r Result[T]) Kind() gateway.Kind {
	return r.kind
}

func succeed[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func failure[T any](err error) Result[T] {
	res := Result[T]{Error: "An unexpected error occurred"}
	if err == nil {
		return res
	}
	res.Error = err.Error()

	var ge *gateway.Error
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ge):
		res.kind = ge.Kind
	case errors.As(err, &ve):
		res.kind = gateway.KindValidation
	}
	return res
}

func notFoundErr(entity string) *gateway.Error {
	return &gateway.Error{Kind: gateway.KindNotFound, Message: entity + " not found"}
}
