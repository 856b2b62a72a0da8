// Package persistence provides binary snapshot serialization for
// chromatch classifiers.
//
// A snapshot stores the classifier's color mode, histogram geometry
// (channels, bins, ranges) and every named model histogram, in
// collection order. The comparison cache is never persisted. Payloads
// can be stored raw or compressed with LZ4 or Zstandard; integrity is
// verified with a CRC32 checksum on load.
//
//	err := persistence.SaveFile(c, "models.chrm",
//	    persistence.WithCompression(persistence.CompressionZSTD))
//
//	c, err := persistence.LoadFile("models.chrm")
package persistence
