package service

import (
	"context"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	bob = &models.User{ID: "u-bob", Username: "bob", Role: models.RoleUser}
	eve = &models.User{ID: "u-eve", Username: "eve", Role: models.RoleUser}
	mod = &models.User{ID: "u-mod", Username: "mod", Role: models.RoleModerator}
)

func TestReviewCreate_Success(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles)

	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByTitleAndAuthor", mock.Anything, int64(1), "u-bob").Return(false, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.TitleID == 1 && r.AuthorID == "u-bob" && r.Score == 7
	})).Run(func(args mock.Arguments) { args.Get(1).(*models.Review).ID = 5 }).Return(nil)

	resp, err := svc.Create(context.Background(), bob, 1, dto.CreateReviewDTO{Text: "good", Score: intPtr(7)})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "bob", resp.Author)
	assert.Equal(t, 7, resp.Score)
}

func TestReviewCreate_SecondReviewRejected(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles)

	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByTitleAndAuthor", mock.Anything, int64(1), "u-bob").Return(true, nil)

	_, err := svc.Create(context.Background(), bob, 1, dto.CreateReviewDTO{Text: "again", Score: intPtr(5)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{duplicateReviewMessage}, verr.Fields["non_field_errors"])
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewCreate_RaceOnUniqueConstraint(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles)

	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByTitleAndAuthor", mock.Anything, int64(1), "u-bob").Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Create(context.Background(), bob, 1, dto.CreateReviewDTO{Text: "racing", Score: intPtr(5)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "non_field_errors")
}

func TestReviewCreate_ScoreBounds(t *testing.T) {
	tests := []struct {
		score int
		ok    bool
	}{
		{0, false},
		{1, true},
		{10, true},
		{11, false},
	}

	for _, tt := range tests {
		reviews := new(MockReviewRepository)
		titles := new(MockTitleRepository)
		svc := NewReviewService(reviews, titles)

		titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
		reviews.On("ExistsByTitleAndAuthor", mock.Anything, int64(1), "u-bob").Return(false, nil)
		reviews.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Create(context.Background(), bob, 1, dto.CreateReviewDTO{Text: "t", Score: intPtr(tt.score)})
		if tt.ok {
			assert.NoError(t, err, "score %d", tt.score)
		} else {
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr, "score %d", tt.score)
		}
	}
}

func TestReviewCreate_BlankText(t *testing.T) {
	titles := new(MockTitleRepository)
	svc := NewReviewService(new(MockReviewRepository), titles)
	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)

	_, err := svc.Create(context.Background(), bob, 1, dto.CreateReviewDTO{Text: "   ", Score: intPtr(5)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "text")
}

func TestReviewCreate_AnonymousAndMissingTitle(t *testing.T) {
	titles := new(MockTitleRepository)
	svc := NewReviewService(new(MockReviewRepository), titles)

	_, err := svc.Create(context.Background(), nil, 1, dto.CreateReviewDTO{Text: "x", Score: intPtr(5)})
	assert.ErrorIs(t, err, permission.ErrAuthenticationRequired)

	titles.On("Exists", mock.Anything, int64(404)).Return(false, nil)
	_, err = svc.Create(context.Background(), bob, 404, dto.CreateReviewDTO{Text: "x", Score: intPtr(5)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewUpdate_Permissions(t *testing.T) {
	newReview := func() *models.Review {
		return &models.Review{ID: 5, TitleID: 1, AuthorID: "u-bob", Text: "old", Score: 4, Author: *bob}
	}

	tests := []struct {
		name    string
		user    *models.User
		wantErr error
	}{
		{"author", bob, nil},
		{"moderator", mod, nil},
		{"admin", &models.User{ID: "u-adm", Role: models.RoleAdmin}, nil},
		{"superuser", &models.User{ID: "u-su", Role: models.RoleUser, IsSuperuser: true}, nil},
		{"other user", eve, permission.ErrPermissionDenied},
		{"anonymous", nil, permission.ErrAuthenticationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := new(MockReviewRepository)
			svc := NewReviewService(reviews, new(MockTitleRepository))

			reviews.On("GetByID", mock.Anything, int64(1), int64(5)).Return(newReview(), nil)
			reviews.On("Update", mock.Anything, mock.Anything).Return(nil)

			resp, err := svc.Update(context.Background(), tt.user, 1, 5, dto.UpdateReviewDTO{Score: intPtr(9)})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 9, resp.Score)
			assert.Equal(t, "old", resp.Text)
		})
	}
}

func TestReviewDelete_WrongTitle(t *testing.T) {
	reviews := new(MockReviewRepository)
	svc := NewReviewService(reviews, new(MockTitleRepository))

	reviews.On("GetByID", mock.Anything, int64(2), int64(5)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), bob, 2, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewList(t *testing.T) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles)
	page := dto.Page{Limit: 10}

	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ListByTitle", mock.Anything, int64(1), page).Return([]models.Review{
		{ID: 1, Score: 7, Author: *bob},
		{ID: 2, Score: 3, Author: *eve},
	}, int64(2), nil)

	resp, err := svc.List(context.Background(), 1, page)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Count)
	assert.Equal(t, "eve", resp.Results[1].Author)
}
