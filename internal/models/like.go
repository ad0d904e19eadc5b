package models

// Engagement is the state returned after toggling a like or a share on a post
type Engagement struct {
	PostID string `json:"postId"`
	Active bool   `json:"active"` // true when the caller now likes/shares the post
	Count  int    `json:"count"`
}
