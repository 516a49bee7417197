package convert

// ObjectRegistry resolves object names to live handles in the surrounding scene.
// A missing name is a permanent condition for the current pass; Resolve is never
// retried.
type ObjectRegistry interface {
	Resolve(name string) (Handle, error)
	NameOf(h Handle) string
}
