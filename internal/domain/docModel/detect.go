package docModel

import (
	"path/filepath"
	"strings"
)

var extTypes = map[string]DocType{
	".pdf":  PDF,
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".tif":  Image,
	".tiff": Image,
	".webp": Image,
	".bmp":  Image,
	".gif":  Image,
	".doc":  Word,
	".docx": Word,
	".odt":  Word,
	".rtf":  Word,
	".txt":  Text,
	".md":   Text,
	".csv":  Text,
	".mp3":  Audio,
	".wav":  Audio,
	".m4a":  Audio,
	".mp4":  Video,
	".mov":  Video,
	".avi":  Video,
	".mkv":  Video,
}

// DetectType maps a filename and declared MIME type onto a DocType.
// The extension wins when both are present; browsers routinely send
// application/octet-stream for anything unusual.
func DetectType(name, mimeType string) DocType {
	if t, ok := extTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	mimeType = strings.ToLower(mimeType)
	switch {
	case mimeType == "application/pdf":
		return PDF
	case strings.HasPrefix(mimeType, "image/"):
		return Image
	case strings.HasPrefix(mimeType, "text/"):
		return Text
	case strings.HasPrefix(mimeType, "audio/"):
		return Audio
	case strings.HasPrefix(mimeType, "video/"):
		return Video
	case strings.Contains(mimeType, "word") || strings.Contains(mimeType, "officedocument"):
		return Word
	}
	return Other
}
