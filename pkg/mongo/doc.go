// Package mongo stores session records in a MongoDB collection.
//
// Each session is one document {_id, data, updated_at}. Writes are upserts,
// so a Dump never depends on a prior Load. With a TTL configured the server
// removes records that have not been written for that long.
//
//	coll, err := mongo.NewCollection(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	backend := mongo.NewBackend(coll)
//
// Factory registers the backend with session.Registry under the name "mongo".
package mongo
