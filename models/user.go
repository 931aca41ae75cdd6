package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	FirstName string    `json:"first_name" gorm:"size:150"`
	LastName  string    `json:"last_name" gorm:"size:150"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription links a subscriber to an author. The composite unique
// index backs the "subscribe twice" conflict; self-subscription is
// rejected in the service before any row is written.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	AuthorID     uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_subscription_pair"`
	SubscriberID uint      `json:"subscriber_id" gorm:"not null;uniqueIndex:idx_subscription_pair"`
	Author       User      `json:"-" gorm:"foreignKey:AuthorID"`
	Subscriber   User      `json:"-" gorm:"foreignKey:SubscriberID"`
	CreatedAt    time.Time `json:"created_at"`
}
