package plan

import "github.com/postwerk/postwerk/internal/models"

// ID identifies a subscription plan.
type ID string

const (
	Starter  ID = "starter"
	Business ID = "business"
	Pro      ID = "pro"
)

// Limits holds the monthly allowance per content type for one plan.
type Limits struct {
	Posts      int `json:"posts"`
	Hashtags   int `json:"hashtags"`
	ImageIdeas int `json:"imageIdeas"`
	Images     int `json:"images"`
	Videos     int `json:"videos"`
}

// Catalog holds all plans keyed by plan ID. Fixed at deploy time.
var Catalog = map[ID]Limits{
	Starter:  {Posts: 15, Hashtags: 15, ImageIdeas: 15, Images: 5, Videos: 2},
	Business: {Posts: 50, Hashtags: 50, ImageIdeas: 50, Images: 20, Videos: 10},
	Pro:      {Posts: 150, Hashtags: 150, ImageIdeas: 150, Images: 75, Videos: 30},
}

// Order defines the display ordering of plans.
var Order = []ID{Starter, Business, Pro}

// Get returns the limits for a plan ID.
func Get(id ID) (Limits, bool) {
	l, ok := Catalog[id]
	return l, ok
}

// For returns the allowance for a single content type.
func (l Limits) For(t models.ContentType) int {
	switch t {
	case models.ContentTypePosts:
		return l.Posts
	case models.ContentTypeHashtags:
		return l.Hashtags
	case models.ContentTypeImageIdeas:
		return l.ImageIdeas
	case models.ContentTypeImages:
		return l.Images
	case models.ContentTypeVideos:
		return l.Videos
	}
	return 0
}
