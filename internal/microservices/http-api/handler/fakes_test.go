package handler_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// In-memory repositories for exercising the real services behind the router.

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*models.User)}
}

func (m *memUsers) find(pred func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if pred(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) Update(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUsers) FindByUsernameAndEmail(_ context.Context, username, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username && u.Email == email })
}

func (m *memUsers) List(_ context.Context, search string, page dto.Page) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.User
	for _, u := range m.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return window(all, page), int64(len(all)), nil
}

func (m *memUsers) SetConfirmationCode(_ context.Context, id, hashedCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.ConfirmationCode = hashedCode
	return nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func window[T any](all []T, page dto.Page) []T {
	if page.Offset >= len(all) {
		return nil
	}
	end := min(page.Offset+page.Limit, len(all))
	return all[page.Offset:end]
}

type memTitles struct {
	mu     sync.Mutex
	seq    int64
	titles map[int64]*models.Title
}

func newMemTitles(seed ...models.Title) *memTitles {
	m := &memTitles{titles: make(map[int64]*models.Title)}
	for i := range seed {
		t := seed[i]
		m.titles[t.ID] = &t
		m.seq = max(m.seq, t.ID)
	}
	return m
}

func (m *memTitles) List(_ context.Context, _ dto.TitleFilter, page dto.Page) ([]models.Title, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Title
	for _, t := range m.titles {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, page), int64(len(all)), nil
}

func (m *memTitles) GetByID(_ context.Context, id int64) (*models.Title, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTitles) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.titles[id]
	return ok, nil
}

func (m *memTitles) Create(_ context.Context, t *models.Title, genres []models.Genre) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = m.seq
	cp := *t
	cp.Genres = genres
	m.titles[t.ID] = &cp
	return nil
}

func (m *memTitles) Update(_ context.Context, id int64, upd repository.TitleUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.titles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := upd.Fields["name"].(string); ok {
		t.Name = v
	}
	if upd.Genres != nil {
		t.Genres = upd.Genres
	}
	return nil
}

func (m *memTitles) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.titles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.titles, id)
	return nil
}

// memReviews enforces the one-review-per-author-and-title constraint the
// way the database does.
type memReviews struct {
	mu      sync.Mutex
	seq     int64
	users   *memUsers
	reviews []models.Review
}

func newMemReviews(users *memUsers) *memReviews {
	return &memReviews{users: users}
}

func (m *memReviews) withAuthor(r models.Review) models.Review {
	if u, err := m.users.FindByID(context.Background(), r.AuthorID); err == nil {
		r.Author = *u
	}
	return r
}

func (m *memReviews) ListByTitle(_ context.Context, titleID int64, page dto.Page) ([]models.Review, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Review
	for _, r := range m.reviews {
		if r.TitleID == titleID {
			all = append(all, m.withAuthor(r))
		}
	}
	return window(all, page), int64(len(all)), nil
}

func (m *memReviews) GetByID(_ context.Context, titleID, reviewID int64) (*models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.ID == reviewID && r.TitleID == titleID {
			out := m.withAuthor(r)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memReviews) ExistsByTitleAndAuthor(_ context.Context, titleID int64, authorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TitleID == titleID && r.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memReviews) Create(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.TitleID == review.TitleID && r.AuthorID == review.AuthorID {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	review.ID = m.seq
	review.PubDate = time.Now()
	m.reviews = append(m.reviews, *review)
	return nil
}

func (m *memReviews) Update(_ context.Context, review *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reviews {
		if m.reviews[i].ID == review.ID {
			m.reviews[i].Text = review.Text
			m.reviews[i].Score = review.Score
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memReviews) Delete(_ context.Context, titleID, reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.reviews {
		if r.ID == reviewID && r.TitleID == titleID {
			m.reviews = append(m.reviews[:i], m.reviews[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// codeInbox captures confirmation codes instead of mailing them.
type codeInbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func newCodeInbox() *codeInbox {
	return &codeInbox{codes: make(map[string]string)}
}

func (i *codeInbox) SendConfirmationCode(_ context.Context, email, code string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.codes[email] = code
	return nil
}

func (i *codeInbox) last(email string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[email]
}
