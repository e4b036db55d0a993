package service

import (
	"context"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentCreate(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(1), int64(5)).Return(&models.Review{ID: 5, TitleID: 1}, nil)
	comments.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.ReviewID == 5 && c.AuthorID == "u-eve"
	})).Return(nil)

	resp, err := svc.Create(context.Background(), eve, 1, 5, dto.CreateCommentDTO{Text: "agreed"})

	require.NoError(t, err)
	assert.Equal(t, "eve", resp.Author)
	assert.Equal(t, "agreed", resp.Text)
}

func TestCommentCreate_ReviewUnderOtherTitle(t *testing.T) {
	reviews := new(MockReviewRepository)
	svc := NewCommentService(new(MockCommentRepository), reviews)

	reviews.On("GetByID", mock.Anything, int64(2), int64(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), eve, 2, 5, dto.CreateCommentDTO{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentCreate_Anonymous(t *testing.T) {
	svc := NewCommentService(new(MockCommentRepository), new(MockReviewRepository))

	_, err := svc.Create(context.Background(), nil, 1, 5, dto.CreateCommentDTO{Text: "x"})
	assert.ErrorIs(t, err, permission.ErrAuthenticationRequired)
}

func TestCommentUpdate_OnlyAuthorOrStaff(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(1), int64(5)).Return(&models.Review{ID: 5, TitleID: 1}, nil)
	comments.On("GetByID", mock.Anything, int64(5), int64(9)).Return(&models.Comment{ID: 9, ReviewID: 5, AuthorID: "u-bob", Text: "old", Author: *bob}, nil)
	comments.On("Update", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Update(context.Background(), eve, 1, 5, 9, dto.UpdateCommentDTO{Text: strPtr("hijack")})
	assert.ErrorIs(t, err, permission.ErrPermissionDenied)

	resp, err := svc.Update(context.Background(), mod, 1, 5, 9, dto.UpdateCommentDTO{Text: strPtr("moderated")})
	require.NoError(t, err)
	assert.Equal(t, "moderated", resp.Text)
	assert.Equal(t, "bob", resp.Author)
}

func TestCommentDelete_Author(t *testing.T) {
	comments := new(MockCommentRepository)
	reviews := new(MockReviewRepository)
	svc := NewCommentService(comments, reviews)

	reviews.On("GetByID", mock.Anything, int64(1), int64(5)).Return(&models.Review{ID: 5, TitleID: 1}, nil)
	comments.On("GetByID", mock.Anything, int64(5), int64(9)).Return(&models.Comment{ID: 9, ReviewID: 5, AuthorID: "u-bob"}, nil)
	comments.On("Delete", mock.Anything, int64(5), int64(9)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), bob, 1, 5, 9))
	comments.AssertExpectations(t)
}

func TestCommentList_MissingReview(t *testing.T) {
	reviews := new(MockReviewRepository)
	svc := NewCommentService(new(MockCommentRepository), reviews)

	reviews.On("GetByID", mock.Anything, int64(1), int64(77)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.List(context.Background(), 1, 77, dto.Page{Limit: 10})
	assert.ErrorIs(t, err, ErrNotFound)
}
