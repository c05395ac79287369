package types

// VideoInfo is the subset of yt-dlp -J output the bot cares about. For
// playlist URLs the top object carries Type "playlist" and the per-video
// fields live in Entries.
type VideoInfo struct {
	Type           string  `json:"_type"`
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Uploader       string  `json:"uploader"`
	Duration       float64 `json:"duration"`
	FileSize       int64   `json:"filesize"`
	FileSizeApprox int64   `json:"filesize_approx"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Ext            string  `json:"ext"`
	Thumbnail      string  `json:"thumbnail"`
	WebpageURL     string  `json:"webpage_url"`

	Entries []VideoInfo `json:"entries"`
}

// Size returns the best known size estimate in bytes, 0 when unknown.
func (v VideoInfo) Size() int64 {
	if v.FileSize > 0 {
		return v.FileSize
	}
	return v.FileSizeApprox
}
