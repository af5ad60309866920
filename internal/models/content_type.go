package models

// ContentType is one of the five generation categories the service meters.
type ContentType string

const (
	ContentTypePosts      ContentType = "posts"
	ContentTypeHashtags   ContentType = "hashtags"
	ContentTypeImageIdeas ContentType = "imageIdeas"
	ContentTypeImages     ContentType = "images"
	ContentTypeVideos     ContentType = "videos"
)

// ContentTypes lists all metered content types in display order.
var ContentTypes = []ContentType{
	ContentTypePosts,
	ContentTypeHashtags,
	ContentTypeImageIdeas,
	ContentTypeImages,
	ContentTypeVideos,
}

// ParseContentType validates a client-supplied content type tag.
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentTypePosts, ContentTypeHashtags, ContentTypeImageIdeas, ContentTypeImages, ContentTypeVideos:
		return ContentType(s), true
	}
	return "", false
}

// DisplayName returns the user-facing German name used in quota messages.
func (t ContentType) DisplayName() string {
	switch t {
	case ContentTypePosts:
		return "Post"
	case ContentTypeHashtags:
		return "Hashtag"
	case ContentTypeImageIdeas:
		return "Bildideen"
	case ContentTypeImages:
		return "Bild"
	case ContentTypeVideos:
		return "Video"
	}
	return string(t)
}
