package modelzoo

// Archive describes one downloadable model archive.
type Archive struct {
	// URL locates the zip archive. Its interpretation belongs to the
	// Source: a full URL for HTTP, a relative path for FileSource. The
	// s3 and minio sources map it onto a bucket object.
	URL string

	// SHA256 is the optional hex digest of the archive. When set, the
	// downloaded bytes are verified before extraction.
	SHA256 string

	// Entries maps well-known entry names to paths inside the
	// extracted archive, using forward slashes.
	Entries map[string]string
}

// Registry maps model names to their archives. Model names double as
// directory names below the manager's root directory.
type Registry map[string]Archive

// DefaultRegistry returns the built-in catalog of pretrained models:
// the head pose estimation networks and the Haar cascade classifiers.
func DefaultRegistry() Registry {
	return Registry{
		"Head pose estimation": {
			URL: "https://www.dropbox.com/s/jnra8jt9ty3qp99/head_pose.zip?dl=1",
			Entries: map[string]string{
				"roll":  "tensorflow/head_pose/roll/cnn_cccdd_30k.tf",
				"yaw":   "tensorflow/head_pose/yaw/cnn_cccdd_30k.tf",
				"pitch": "tensorflow/head_pose/pitch/cnn_cccdd_30k.tf",
			},
		},
		"Haar Cascades": {
			URL: "https://dl.dropbox.com/s/1a98kz7yrotbpjz/xml.zip",
			Entries: map[string]string{
				"profile face": "xml/haarcascade_profileface.xml",
				"frontal face": "xml/haarcascade_frontalface_alt.xml",
			},
		},
	}
}
