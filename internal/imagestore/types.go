package imagestore

import (
	"fmt"
	"mime"
	"path"
	"regexp"
	"sort"
	"strings"
)

// namePattern is the only shape a stored image name can have:
// a lowercase uuid, a dot, and a 2-4 letter extension.
var namePattern = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.[a-z]{2,4}$`,
)

// extensions is the upload allow-set and its file extensions.
var extensions = map[string]string{
	"image/gif":  "gif",
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// contentTypes maps stored extensions back to media types.
var contentTypes = map[string]string{
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// StoredImage describes one published file.
type StoredImage struct {
	Name        string
	ContentType string
	Path        string
	Size        int64
}

// ValidName reports whether name has the stored image shape.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// mediaType strips parameters and case from a Content-Type value.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

// Allowed reports whether uploads of contentType are accepted.
func Allowed(contentType string) bool {
	_, ok := extensions[mediaType(contentType)]
	return ok
}

// AllowedTypes lists the accepted upload media types.
func AllowedTypes() []string {
	out := make([]string, 0, len(extensions))
	for ct := range extensions {
		out = append(out, ct)
	}
	sort.Strings(out)
	return out
}

// Extension returns the file extension used for contentType.
func Extension(contentType string) (string, error) {
	ext, ok := extensions[mediaType(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return ext, nil
}

// ContentType returns the media type for a stored name's extension, or ""
// when the extension is unknown.
func ContentType(name string) string {
	return contentTypes[strings.TrimPrefix(path.Ext(name), ".")]
}
