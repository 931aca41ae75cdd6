package models

// Viewer identifies the user issuing the current read. The zero value is
// the anonymous viewer: every derived flag (is_favorited,
// is_in_shopping_cart, is_subscribed) resolves to false for it.
type Viewer struct {
	UserID uint
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == 0
}
