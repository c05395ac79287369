package types

type DownloadRequest struct {
	URL    string `json:"url"`
	UserID int64  `json:"user_id"`
}
