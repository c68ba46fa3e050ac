// Package pg stores session records in PostgreSQL through a pgx pool.
//
// Connect opens the pool with retries; Migrate applies the schema embedded
// in the binary with goose; NewBackend wraps any DB (a *pgxpool.Pool in
// production) as a session.Backend:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	backend := pg.NewBackend(pool)
//
// Records live in plugsession_records(id, data, updated_at). Factory
// registers the backend with session.Registry under the name "postgres".
package pg
