// Package minio provides a modelzoo.Source backed by MinIO or any
// S3-compatible object store.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	zoo, err := modelzoo.New(func(o *modelzoo.Options) {
//	    o.Source = miniosource.NewSource(client, "my-bucket", "models/")
//	})
package minio
