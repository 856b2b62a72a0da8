// Package s3 provides a modelzoo.Source backed by Amazon S3.
//
// # Usage
//
//	src, err := s3.NewSourceFromConfig(ctx, "my-bucket", "models/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	zoo, err := modelzoo.New(func(o *modelzoo.Options) {
//	    o.Source = src
//	})
//
// Archives are fetched with concurrent ranged reads when no rate limit
// is configured on the manager.
package s3
