package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raghavk/vidtube/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username     string
	email        string
	fullName     string
	password     string
	avatar       string
	coverImage   string
	watchHistory []string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		fullName: "Test User",
		password: "testpassword123",
		avatar:   "https://media.test/uploads/default-avatar.png",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithFullName sets the full name
func (b *UserBuilder) WithFullName(fullName string) *UserBuilder {
	b.fullName = fullName
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithWatchHistory sets the stored watch history references
func (b *UserBuilder) WithWatchHistory(videoIDs ...string) *UserBuilder {
	b.watchHistory = videoIDs
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		FullName:     b.fullName,
		PasswordHash: string(hashedPassword),
		Avatar:       b.avatar,
		CoverImage:   b.coverImage,
		WatchHistory: datatypes.JSONSlice[string](b.watchHistory),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginData matches the login response payload
type LoginData struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndLogin creates a user in the database and logs in via the API,
// returning the user plus both tokens.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *LoginData) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	reqBody := map[string]string{
		"email":    user.Email,
		"password": password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to login user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var envelope struct {
		Data LoginData `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return user, &envelope.Data
}

// VideoBuilder creates test videos with a builder pattern
type VideoBuilder struct {
	owner *domain.User
	title string
}

// NewVideoBuilder creates a new VideoBuilder with default values
func NewVideoBuilder() *VideoBuilder {
	return &VideoBuilder{
		title: fmt.Sprintf("Test Video %s", uuid.New().String()[:8]),
	}
}

// WithOwner sets the video owner
func (b *VideoBuilder) WithOwner(owner *domain.User) *VideoBuilder {
	b.owner = owner
	return b
}

// WithTitle sets the title
func (b *VideoBuilder) WithTitle(title string) *VideoBuilder {
	b.title = title
	return b
}

// Build creates the video in the database
func (b *VideoBuilder) Build(t *testing.T, db *gorm.DB) *domain.Video {
	t.Helper()

	if b.owner == nil {
		owner, _ := NewUserBuilder().Build(t, db)
		b.owner = owner
	}

	video := &domain.Video{
		ID:          uuid.New(),
		OwnerID:     b.owner.ID,
		VideoFile:   "https://media.test/uploads/video.mp4",
		Thumbnail:   "https://media.test/uploads/thumb.png",
		Title:       b.title,
		Duration:    120,
		IsPublished: true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(video).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}

	return video
}

// Subscribe creates a subscription edge from subscriber to channel
func Subscribe(t *testing.T, db *gorm.DB, subscriber, channel *domain.User) *domain.Subscription {
	t.Helper()

	sub := &domain.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriber.ID,
		ChannelID:    channel.ID,
		CreatedAt:    time.Now(),
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}

	return sub
}

// MultipartBody builds a multipart form with the given fields and files.
// Files map field name to filename; content is a small PNG-ish payload.
func MultipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}

	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("failed to create form file %s: %v", field, err)
		}
		if _, err := part.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("failed to write form file %s: %v", field, err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}
