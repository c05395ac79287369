package youtube

import "regexp"

var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(https?://)?(www\.)?youtube\.com/watch\?v=`),
	regexp.MustCompile(`(?i)(https?://)?youtu\.be/`),
	regexp.MustCompile(`(?i)(https?://)?(www\.)?youtube\.com/shorts/`),
	regexp.MustCompile(`(?i)(https?://)?(www\.)?youtube\.com/playlist\?list=`),
	regexp.MustCompile(`(?i)(https?://)?(www\.)?youtube\.com/embed/`),
}

// IsYouTubeURL reports whether url points at a downloadable YouTube page.
func IsYouTubeURL(url string) bool {
	for _, pattern := range urlPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}
