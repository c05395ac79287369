package youtube

type ClientListener interface {
	OnDownloadStart(*Client)
	OnDownloadProgress(*Client, int64)
	OnDownloadComplete(*Client, string)
	OnDownloadError(*Client, error)
}
