// Package s3 stores session records as objects in Amazon S3 or any
// S3-compatible service such as MinIO.
//
//	client, err := s3.NewClient(ctx, s3.Config{
//	    Bucket:         "sessions",
//	    Region:         "us-east-1",
//	    Endpoint:       "http://localhost:9000",
//	    ForcePathStyle: true,
//	})
//	if err != nil {
//	    return err
//	}
//	backend, err := s3.NewBackend(client, "sessions", s3.WithPrefix("app/"))
//
// Missing objects (NoSuchKey or NotFound) load as an empty record. Factory
// registers the backend with session.Registry under the name "s3".
package s3
