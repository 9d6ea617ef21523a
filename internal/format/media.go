package format

import (
	"mime"
	"strings"
)

// Media types defined by the JSON event format.
const (
	MediaTypeJSON                 = "application/json"
	MediaTypeCloudEventsJSON      = "application/cloudevents+json"
	MediaTypeCloudEventsBatchJSON = "application/cloudevents-batch+json"
)

// IsJSONMediaType reports whether the media type denotes JSON content: a
// "/json" subtype or a "+json" structured-syntax suffix. Parameters are
// ignored.
func IsJSONMediaType(mediaType string) bool {
	base := baseMediaType(mediaType)
	return strings.HasSuffix(base, "/json") || strings.HasSuffix(base, "+json")
}

// IsCloudEventsMediaType reports whether the media type is the structured
// single-event media type. Parameters are ignored.
func IsCloudEventsMediaType(mediaType string) bool {
	return baseMediaType(mediaType) == MediaTypeCloudEventsJSON
}

// IsCloudEventsBatchMediaType reports whether the media type is the batch
// media type. Parameters are ignored.
func IsCloudEventsBatchMediaType(mediaType string) bool {
	return baseMediaType(mediaType) == MediaTypeCloudEventsBatchJSON
}

// IsTextMediaType reports whether the media type is in the text tree.
func IsTextMediaType(mediaType string) bool {
	return strings.HasPrefix(baseMediaType(mediaType), "text/")
}

// baseMediaType strips parameters and normalizes case.
func baseMediaType(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// charsetParam extracts the charset parameter of a media type, or "".
func charsetParam(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
