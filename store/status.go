package store

// OpStatus tracks the lifecycle of the most recent operation on a store.
// It is a store-wide flag, not a per-entity one: when operations overlap,
// whichever settles last wins the slot.
type OpStatus string

const (
	StatusIdle      OpStatus = "idle"
	StatusPending   OpStatus = "pending"
	StatusFulfilled OpStatus = "fulfilled"
	StatusRejected  OpStatus = "rejected"
)

// Pending reports whether an operation is still in flight.
func (s OpStatus) Pending() bool {
	return s == StatusPending
}

// Listener is invoked after every state change, outside the store's lock,
// so it may read the store freely. Persistence subscribes here.
type Listener func()
