// Package s3 fetches mail attachments from Amazon S3 and S3-compatible
// services (MinIO, DigitalOcean Spaces, Wasabi).
//
// Basic usage:
//
//	src, err := s3.New(ctx, s3.Config{
//		Bucket:      "invoices",
//		Region:      "us-east-1",
//		AccessKeyID: "AKIA...", // Optional - uses IAM roles if empty
//		SecretKey:   "...",
//	}, s3.WithMaxSize(10<<20))
//	if err != nil {
//		return err
//	}
//
//	invoice, err := src.Fetch(ctx, "2024/03/invoice-1042.pdf")
//	if err != nil {
//		return err
//	}
//	if err := m.WithAttachment(invoice); err != nil {
//		_ = invoice.Release()
//		return err
//	}
//
// The downloaded file is removed when the mail is sent. Failures are
// reported with the content package errors (content.ErrNotFound,
// content.ErrAccessDenied, content.ErrUnavailable, and the timeout and
// cancellation errors), so callers can handle any content source alike.
//
// MinIO configuration:
//
//	cfg := s3.Config{
//		Bucket:         "my-bucket",
//		Region:         "us-east-1", // Required
//		AccessKeyID:    "minioadmin",
//		SecretKey:      "minioadmin",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true, // Required for MinIO
//	}
package s3
