package command

import "context"

// Command is one use case invoked by a transport. Req carries the caller's input and Res is
// what the transport renders.
type Command[Req, Res any] interface {
	Execute(ctx context.Context, req Req) (Res, error)
}
