// Package content provides binary content for mail attachments.
//
// Mail libraries attach files by path, so every Content is resolved to a
// FileSystemAccessible value before use. Content already on disk (File) is
// used in place; in-memory content (Blob, or any Readable) is copied into a
// TempFile that the resolver's caller owns:
//
//	fsc, releasable, err := content.FileSystemAccessibleOf(content.FromBytes(pdf,
//		content.WithFilename("invoice.pdf"),
//		content.WithDetectedMimeType(),
//	))
//	if err != nil {
//		return err
//	}
//
//	var owned content.ReleaseSet
//	if releasable {
//		owned.AddIfReleasable(fsc)
//	}
//	defer owned.ReleaseAll()
//
// Release is idempotent for TempFile, and ReleaseSet empties itself, so a
// resource is freed exactly once however many times cleanup runs.
package content
