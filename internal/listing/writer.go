package listing

import (
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// New builds a listing whose hrefs are prefix joined with each name.
// Images is never nil so an empty collection encodes as an empty array.
func New(prefix string, names []string) *Listing {
	l := &Listing{Images: make([]Entry, 0, len(names))}
	for _, name := range names {
		l.Images = append(l.Images, Entry{Href: path.Join(prefix, name)})
	}
	return l
}

// Negotiate picks the media type for an Accept header value. msgpack is
// the default; JSON is chosen when the client asks for it.
func Negotiate(accept string) string {
	for _, part := range strings.Split(accept, ",") {
		mt := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		switch strings.ToLower(mt) {
		case MediaMsgpack, "application/x-msgpack":
			return MediaMsgpack
		case MediaJSON:
			return MediaJSON
		}
	}
	return MediaMsgpack
}

// Encode writes l to w in the given media type.
func Encode(w io.Writer, l *Listing, mediaType string) error {
	if mediaType == MediaJSON {
		return json.NewEncoder(w).Encode(l)
	}
	return msgpack.NewEncoder(w).Encode(l)
}
