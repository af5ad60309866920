package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UsageRecord tracks how many units of each content type a user generated in
// one calendar-month bucket, plus any extra tokens purchased for that bucket.
type UsageRecord struct {
	UserID               string    `json:"user_id"`
	Month                string    `json:"month"`
	PostsGenerated       int       `json:"posts_generated"`
	HashtagsGenerated    int       `json:"hashtags_generated"`
	ImageIdeasGenerated  int       `json:"image_ideas_generated"`
	ImagesGenerated      int       `json:"images_generated"`
	VideosGenerated      int       `json:"videos_generated"`
	ExtraTokensPurchased int       `json:"extra_tokens_purchased"`
	LastUpdated          time.Time `json:"last_updated"`
}

// Generated returns the counter for a single content type.
func (u *UsageRecord) Generated(t ContentType) int {
	switch t {
	case ContentTypePosts:
		return u.PostsGenerated
	case ContentTypeHashtags:
		return u.HashtagsGenerated
	case ContentTypeImageIdeas:
		return u.ImageIdeasGenerated
	case ContentTypeImages:
		return u.ImagesGenerated
	case ContentTypeVideos:
		return u.VideosGenerated
	}
	return 0
}

type UsageRecordDB struct {
	bun.BaseModel `bun:"table:usage_records,alias:ur"`

	UserID               string    `bun:"user_id,pk" json:"user_id"`
	Month                string    `bun:"month,pk" json:"month"`
	PostsGenerated       int       `bun:"posts_generated,notnull,default:0" json:"posts_generated"`
	HashtagsGenerated    int       `bun:"hashtags_generated,notnull,default:0" json:"hashtags_generated"`
	ImageIdeasGenerated  int       `bun:"image_ideas_generated,notnull,default:0" json:"image_ideas_generated"`
	ImagesGenerated      int       `bun:"images_generated,notnull,default:0" json:"images_generated"`
	VideosGenerated      int       `bun:"videos_generated,notnull,default:0" json:"videos_generated"`
	ExtraTokensPurchased int       `bun:"extra_tokens_purchased,notnull,default:0" json:"extra_tokens_purchased"`
	LastUpdated          time.Time `bun:"last_updated,notnull,default:current_timestamp" json:"last_updated"`
}

func (u *UsageRecordDB) ToUsageRecord() *UsageRecord {
	return &UsageRecord{
		UserID:               u.UserID,
		Month:                u.Month,
		PostsGenerated:       u.PostsGenerated,
		HashtagsGenerated:    u.HashtagsGenerated,
		ImageIdeasGenerated:  u.ImageIdeasGenerated,
		ImagesGenerated:      u.ImagesGenerated,
		VideosGenerated:      u.VideosGenerated,
		ExtraTokensPurchased: u.ExtraTokensPurchased,
		LastUpdated:          u.LastUpdated,
	}
}
