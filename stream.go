package changekit

import (
	"context"

	"github.com/autom8ter/machine/v4"
)

// Stream broadcasts and pulls messages on named channels
type Stream[T any] interface {
	// Broadcast broadcasts the message to the channel's consumers
	Broadcast(ctx context.Context, channel string, msg T)
	// Pull blocks, delivering the channel's messages to fn until fn returns
	// false or an error, or the context cancels
	Pull(ctx context.Context, channel string, fn func(ctx context.Context, msg T) (bool, error)) error
}

type machineStream[T any] struct {
	machine machine.Machine
}

func newStream[T any](m machine.Machine) Stream[T] {
	return machineStream[T]{machine: m}
}

func (s machineStream[T]) Broadcast(ctx context.Context, channel string, msg T) {
	s.machine.Publish(ctx, machine.Message{
		Channel: channel,
		Body:    msg,
	})
}

func (s machineStream[T]) Pull(ctx context.Context, channel string, fn func(ctx context.Context, msg T) (bool, error)) error {
	return s.machine.Subscribe(ctx, channel, func(ctx context.Context, msg machine.Message) (bool, error) {
		body, ok := msg.Body.(T)
		if !ok {
			return true, nil
		}
		return fn(ctx, body)
	})
}
