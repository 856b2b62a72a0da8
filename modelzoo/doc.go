// Package modelzoo resolves named pretrained-model archives to local
// paths, downloading and unpacking them on first use.
//
// A Registry maps model names to zip archives and to the well-known
// entries inside them. Resolve returns the extracted model directory,
// fetching the archive from the configured Source (HTTP by default)
// when the directory does not exist yet; ResolveEntry returns the path
// of a single named entry. A model counts as installed exactly when its
// directory exists, and extraction goes through a staging directory and
// a final rename, so a present directory is always a complete one.
//
//	zoo, err := modelzoo.New(func(o *modelzoo.Options) {
//	    o.Dir = "models"
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cascade, err := zoo.ResolveEntry(ctx, "Haar Cascades", "frontal face")
//
// Concurrent resolves of the same model are deduplicated in process and
// serialized across processes with a lock file beside the model
// directory. Alternative archive sources live in the s3 and minio
// sub-packages; a FileSource serves archives from a local mirror.
package modelzoo
