package directory

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaFile  MediaKind = "file"
)

var (
	imageExts = map[string]bool{"jpeg": true, "jpg": true, "png": true, "gif": true, "webp": true}
	videoExts = map[string]bool{"mp4": true, "mov": true, "avi": true, "mkv": true, "webm": true}
)

type MediaItem struct {
	Path string    `json:"path"`
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// ClassifyMedia looks only at the file extension.
func ClassifyMedia(p string) MediaKind {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(strings.TrimSpace(p)), "."))
	switch {
	case imageExts[ext]:
		return MediaImage
	case videoExts[ext]:
		return MediaVideo
	}
	return MediaFile
}

// ParseGallery splits a comma-joined media_gallery value. Entries are
// trimmed and empty entries dropped.
func ParseGallery(gallery string) []string {
	paths := []string{}
	for _, part := range strings.Split(gallery, ",") {
		if p := strings.TrimSpace(part); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// JoinGallery is the inverse of ParseGallery.
func JoinGallery(paths []string) string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ",")
}

// JoinURL builds "<base>/<rel>" by plain concatenation. An empty rel has
// no URL.
func JoinURL(base, rel string) string {
	if rel == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", base, rel)
}

// DecodeChildren reads a JSON-encoded string array. Anything that is not
// one yields an empty slice.
func DecodeChildren(raw string) []string {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil || names == nil {
		return []string{}
	}
	return names
}

// EncodeChildren is the storage form of a children name list.
func EncodeChildren(names []string) string {
	if names == nil {
		names = []string{}
	}
	data, _ := json.Marshal(names)
	return string(data)
}
