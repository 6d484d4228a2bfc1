package pipeline

import "strings"

const defaultMIMEType = "application/octet-stream"

var mimeByFileType = map[string]string{
	"mp4": "video/mp4",
	"mp3": "audio/mpeg",
	"txt": "text/plain",
	"pdf": "application/pdf",
	"mov": "video/quicktime",
	"wav": "audio/wav",
}

func mimeTypeFor(fileType string) string {
	if mt, ok := mimeByFileType[strings.ToLower(fileType)]; ok {
		return mt
	}
	return defaultMIMEType
}
