package sqldb

import (
	"context"
	"fmt"

	"chatsql/internal/application/port/output"

	"github.com/tmc/langchaingo/tools/sqldatabase"
	lcmysql "github.com/tmc/langchaingo/tools/sqldatabase/mysql"
	lcpostgres "github.com/tmc/langchaingo/tools/sqldatabase/postgresql"
)

var _ output.DatabasePort = (*sqldatabase.SQLDatabase)(nil)

// engines maps a ParseURI engine name to its langchaingo constructor.
var engines = map[string]sqldatabase.EngineFunc{
	lcmysql.EngineName:    lcmysql.NewMySQL,
	lcpostgres.EngineName: lcpostgres.NewPostgreSQL,
}

type Options struct {
	// SampleRows is the number of rows appended to each table's schema.
	SampleRows   int
	IgnoreTables []string
}

// OpenFunc opens a database handle for a connection URI.
type OpenFunc func(ctx context.Context, uri string) (output.DatabasePort, error)

// Opener returns an OpenFunc backed by langchaingo's SQLDatabase. Opening
// lists the tables, so an unreachable server or bad login fails here and
// the engine's pool is closed again.
func Opener(opts Options) OpenFunc {
	ignore := make(map[string]struct{}, len(opts.IgnoreTables))
	for _, t := range opts.IgnoreTables {
		ignore[t] = struct{}{}
	}

	return func(ctx context.Context, uri string) (output.DatabasePort, error) {
		engine, dsn, err := ParseURI(uri)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		newEngine, ok := engines[engine]
		if !ok {
			return nil, fmt.Errorf("%w: %q", sqldatabase.ErrUnknownDialect, engine)
		}
		eng, err := newEngine(dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", Redact(uri), err)
		}

		db, err := sqldatabase.NewSQLDatabase(eng, ignore)
		if err != nil {
			eng.Close()
			return nil, fmt.Errorf("connect to %s: %w", Redact(uri), err)
		}
		db.SampleRowsNumber = opts.SampleRows
		return db, nil
	}
}
