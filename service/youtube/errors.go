package youtube

import (
	"errors"
	"strings"
)

var (
	// ErrVideoUnavailable indicates the requested video cannot be accessed.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrPrivate indicates the video is private.
	ErrPrivate = errors.New("video is private")
	// ErrAgeRestricted indicates the video needs valid cookies to download.
	ErrAgeRestricted = errors.New("age restricted, cookies required")
	// ErrGeoBlocked indicates the video is not available in this region.
	ErrGeoBlocked = errors.New("geo blocked")
	// ErrRateLimited indicates YouTube is throttling us.
	ErrRateLimited = errors.New("rate limited by youtube")
	// ErrCancelled indicates the download was cancelled by the user.
	ErrCancelled = errors.New("cancelled by user")
)

// ClassifyOutput maps yt-dlp stderr output to a sentinel error, nil when no
// known failure is recognized.
func ClassifyOutput(output string) error {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "private video"):
		return ErrPrivate
	case strings.Contains(lower, "sign in to confirm your age"),
		strings.Contains(lower, "age-restricted"),
		strings.Contains(lower, "inappropriate for some users"):
		return ErrAgeRestricted
	case strings.Contains(lower, "not available in your country"),
		strings.Contains(lower, "geo restriction"):
		return ErrGeoBlocked
	case strings.Contains(lower, "http error 429"),
		strings.Contains(lower, "rate-limited"),
		strings.Contains(lower, "too many requests"):
		return ErrRateLimited
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "this video is not available"):
		return ErrVideoUnavailable
	}
	return nil
}
