package player

import (
	"mime"
	"net/url"
	"path/filepath"
	"strings"
)

var videoExts = map[string]bool{
	".mp4": true, ".m4v": true, ".mkv": true, ".webm": true,
	".mov": true, ".avi": true, ".ts": true,
}

var knownMIME = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".m3u8": "application/vnd.apple.mpegurl",
}

var streamExts = map[string]bool{
	".m3u8": true, ".pls": true, ".m3u": true,
}

// Detect guesses the media type and MIME type of a path or URL from its
// extension. Playlists served over the network are treated as live;
// unknown extensions default to audio.
func Detect(source string) (MediaType, string) {
	ext := strings.ToLower(filepath.Ext(sourcePath(source)))
	remote := strings.Contains(source, "://") && !strings.HasPrefix(source, "file://")

	mimeType, ok := knownMIME[ext]
	if !ok {
		mimeType = mime.TypeByExtension(ext)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	switch {
	case streamExts[ext] && remote:
		return MediaLiveAudio, mimeType
	case videoExts[ext] || strings.HasPrefix(mimeType, "video/"):
		return MediaVideo, mimeType
	default:
		return MediaAudio, mimeType
	}
}

func sourcePath(source string) string {
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		return u.Path
	}
	return source
}
