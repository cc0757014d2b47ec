// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"time"

	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		FullName: gofakeit.Name(),
		Email:    gofakeit.Email(),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given user.
// Roughly a third of generated posts carry a media URL.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Text:   gofakeit.Paragraph(1, 3, 8, " "),
		UserID: user.ID,
	}
	if gofakeit.Number(0, 2) == 0 {
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	post.CreatedAt = time.Now().
		Add(-time.Duration(gofakeit.Number(0, maxDays*24)) * time.Hour).
		Add(-time.Duration(gofakeit.Number(0, 59)) * time.Minute)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:   gofakeit.Sentence(gofakeit.Number(3, 15)),
		UserID: user.ID,
		PostID: post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records user liking post, with the matching notification the
// way the live like path produces it. Duplicate likes are ignored.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	res := f.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: user.ID, PostID: post.ID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return f.db.Create(&models.Notification{
		FromID: user.ID,
		ToID:   post.UserID,
		Type:   models.NotificationTypeLike,
	}).Error
}

// CreateFollow records follower following followee. Duplicates are ignored.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}).Error
}
