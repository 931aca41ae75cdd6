package repositories

import (
	"recipebox/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetList(page, limit int) ([]models.User, int64, error)
	UpdatePassword(id uint, hash string) error

	CreateSubscription(authorID, subscriberID uint) error
	DeleteSubscription(authorID, subscriberID uint) (int64, error)
	SubscriptionExists(authorID, subscriberID uint) (bool, error)
	GetSubscribedAuthors(subscriberID uint) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *userRepository) GetList(page, limit int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.Model(&models.User{})
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *userRepository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *userRepository) CreateSubscription(authorID, subscriberID uint) error {
	return r.db.Create(&models.Subscription{AuthorID: authorID, SubscriberID: subscriberID}).Error
}

func (r *userRepository) DeleteSubscription(authorID, subscriberID uint) (int64, error) {
	res := r.db.Where("author_id = ? AND subscriber_id = ?", authorID, subscriberID).
		Delete(&models.Subscription{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) SubscriptionExists(authorID, subscriberID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("author_id = ? AND subscriber_id = ?", authorID, subscriberID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetSubscribedAuthors(subscriberID uint) ([]models.User, error) {
	var authors []models.User
	err := r.db.
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("users.id").
		Find(&authors).Error
	return authors, err
}
