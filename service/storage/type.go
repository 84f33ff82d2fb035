package storage

// IService is the platform storage capability: a flat persisted directory
// plus read-only bundled fallback assets. Reads report found=false rather
// than an error when a file simply does not exist.
type IService interface {
	ReadPersisted(name string) ([]byte, bool, error)
	WritePersisted(name string, data []byte) error
	ReadBundled(name string) ([]byte, bool, error)
	PersistedPath(name string) string
}
