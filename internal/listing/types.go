package listing

// Listing is the document served for the image collection.
type Listing struct {
	Images []Entry `json:"images" msgpack:"images"`
}

// Entry points at one stored image.
type Entry struct {
	Href string `json:"href" msgpack:"href"`
}

// Media types the listing can be encoded as.
const (
	MediaMsgpack = "application/msgpack"
	MediaJSON    = "application/json"
)
