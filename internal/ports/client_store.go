package ports

// ClientStore keeps one TaskClient per logical user, keyed by an external
// session identifier. The client itself holds no knowledge of this registry;
// eviction and expiry are the store's concern.
type ClientStore interface {
	Get(id string) (TaskClient, bool)
	Put(id string, client TaskClient)
	Remove(id string)
}
