package lifetime

import "context"

// factoryFunc is the type-erased constructor a slot invokes on its slow path.
// The builder wraps the user's typed Factory into this form.
type factoryFunc func(ctx context.Context) (any, error)

// slot is the per-type unit holding at most one live instance plus its
// invalidation policy. Implementations are safe for concurrent use: reads run
// in parallel, replacement is serialized.
type slot interface {
	// get returns the current instance, creating or replacing it first if the
	// slot is empty or its policy has invalidated the previous one.
	get(ctx context.Context) (any, error)

	// token returns the expiry token of the current (or most recently
	// retired) instance. Fails with NotInitializedError before the first get.
	token() (Token, error)

	// close retires the current instance, fires its signal and permanently
	// disables the slot. Idempotent.
	close() error
}
