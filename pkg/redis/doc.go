// Package redis connects to Redis with go-redis and stores session records
// in it.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	backend := redis.NewBackend(client, redis.WithTTL(24*time.Hour))
//
// Records are kept as plain strings under "session:<id>" unless another
// prefix is configured. Factory plugs the backend into session.Registry
// under the name "redis".
package redis
