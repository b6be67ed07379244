package types

import "strings"

// DefaultImageMediaType is assumed when an encoded image does not declare a
// media type, matching the capture pipeline which produces JPEG screenshots.
const DefaultImageMediaType = "image/jpeg"

// EncodedImage is a still image encoded as a data URL
// ("data:image/png;base64,....") or as a bare base64 payload.
type EncodedImage string

// MediaType returns the declared media type of the image, or
// DefaultImageMediaType if the image is a bare payload or declares none.
func (img EncodedImage) MediaType() string {
	s := string(img)
	if !strings.HasPrefix(s, "data:") {
		return DefaultImageMediaType
	}
	meta, _, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return DefaultImageMediaType
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	if mediaType == "" {
		return DefaultImageMediaType
	}
	return mediaType
}

// Payload returns the base64 payload of the image with any data-URL prefix
// stripped.
func (img EncodedImage) Payload() string {
	s := string(img)
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}
