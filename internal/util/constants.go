package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Certificate uploads are documents, not arbitrary files.
const (
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

var AllowedCertificateExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}
