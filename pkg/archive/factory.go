package archive

import "fmt"

// NewStore returns the store backend named by kind: "" or "memory" for an
// in-process store, "sqlite" for a database file at sqlitePath.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(DefaultRetention), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", kind)
	}
}
