package output

import "context"

// DatabasePort is the subset of the SQL handle the toolkit needs.
type DatabasePort interface {
	Dialect() string
	TableNames() []string
	TableInfo(ctx context.Context, tables []string) (string, error)
	Query(ctx context.Context, query string) (string, error)
	Close() error
}

// DatabaseProvider hands out shared database handles by connection URI.
// Callers must call release once they are done with the handle.
type DatabaseProvider interface {
	Acquire(ctx context.Context, uri string) (db DatabasePort, release func(), err error)
}
