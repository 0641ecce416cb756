package audit

import "context"

// Actor datos de quien ejecuta la operación (usuario e información de la petición).
type Actor struct {
	UserID    string
	IPAddress string
	UserAgent string
}

type actorKey struct{}

// WithActor adjunta el actor al contexto.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom devuelve el actor del contexto (vacío si no hay).
func ActorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

// withActor completa la entrada con los datos del actor del contexto.
func (e Entry) withActor(ctx context.Context) Entry {
	a := ActorFrom(ctx)
	if e.UserID == "" {
		e.UserID = a.UserID
	}
	if e.IPAddress == "" {
		e.IPAddress = a.IPAddress
	}
	if e.UserAgent == "" {
		e.UserAgent = a.UserAgent
	}
	return e
}
