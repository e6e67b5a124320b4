package lifetime

import "fmt"

// NotRegisteredError indicates that no lifetime was configured for the
// requested type.
type NotRegisteredError struct {
	Type string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no lifetime registered for type: %s", e.Type)
}

// NotInitializedError indicates that an expiry token was requested before the
// first instance of the type was ever created.
type NotInitializedError struct {
	Type string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("no instance has been created yet for type: %s", e.Type)
}

// DisposedError indicates an operation on a provider or slot that has already
// been torn down.
type DisposedError struct{}

func (e *DisposedError) Error() string {
	return "lifetime provider has been disposed"
}

// CancelledError indicates that the caller's context was done before the
// operation could complete. No creation or teardown was performed.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("lifetime operation cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// ConstructionError indicates that a factory failed to produce an instance.
type ConstructionError struct {
	Type string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction failed for type %s: %v", e.Type, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// TeardownError indicates that a retired instance's cleanup failed. Teardown
// failures never abort a replacement; they are reported through the builder's
// teardown logger, or from Close.
type TeardownError struct {
	Type string
	Err  error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown failed for type %s: %v", e.Type, e.Err)
}

func (e *TeardownError) Unwrap() error {
	return e.Err
}

// ConditionError indicates that a conditional slot's expiry predicate failed.
// The existing instance stays installed when this happens.
type ConditionError struct {
	Type string
	Err  error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("expiry predicate failed for type %s: %v", e.Type, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}
