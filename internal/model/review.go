package model

import "time"

// Review is a rated write-up a traveller leaves on a product. Image
// URLs are stored as-is; file storage lives outside this service.
type Review struct {
	ID        uint64    // reviews.id
	MemberID  uint64    // reviews.member_id
	ProductID uint64    // reviews.product_id
	Content   string    // reviews.content
	Rating    int       // reviews.rating (1..5)
	ImageURLs []string  // review_images.url, loaded with the review
	CreatedAt time.Time // reviews.created_at
	UpdatedAt time.Time // reviews.updated_at
}

// Comment is a reply attached to a review.
type Comment struct {
	ID        uint64    // comments.id
	ReviewID  uint64    // comments.review_id
	MemberID  uint64    // comments.member_id
	Content   string    // comments.content
	CreatedAt time.Time // comments.created_at
}
