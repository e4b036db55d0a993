package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"
)

const duplicateReviewMessage = "you have already reviewed this title"

type ReviewService interface {
	List(ctx context.Context, titleID int64, page dto.Page) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, user *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, user *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, user *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page dto.Page) (*dto.Paginated[dto.ReviewResponse], error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page)
	if err != nil {
		return nil, err
	}
	results := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		results = append(results, dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginated(results, total), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound(err, "review")
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// Create adds the author's review. A second review of the same title by the
// same author is a validation error, whether caught by the pre-check or by
// the unique constraint when two requests race.
func (s *reviewService) Create(ctx context.Context, user *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := permission.Authorize(permission.ActorOf(user), permission.Review, permission.Create, false); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if strings.TrimSpace(req.Text) == "" {
		verr.Add("text", "this field may not be blank")
	}
	if req.Score == nil {
		verr.Add("score", "this field is required")
	} else if *req.Score < models.MinScore || *req.Score > models.MaxScore {
		verr.Add("score", "score must be between 1 and 10")
	}
	if !verr.empty() {
		return nil, verr
	}

	exists, err := s.reviewRepo.ExistsByTitleAndAuthor(ctx, titleID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("non_field_errors", duplicateReviewMessage)
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: user.ID,
		Text:     req.Text,
		Score:    *req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, NewValidationError("non_field_errors", duplicateReviewMessage)
		}
		return nil, err
	}
	review.Author = *user

	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, user *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.editable(ctx, user, titleID, reviewID, permission.Update)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, NewValidationError("text", "this field may not be blank")
		}
		review.Text = *req.Text
	}
	if req.Score != nil {
		if *req.Score < models.MinScore || *req.Score > models.MaxScore {
			return nil, NewValidationError("score", "score must be between 1 and 10")
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, user *models.User, titleID, reviewID int64) error {
	if _, err := s.editable(ctx, user, titleID, reviewID, permission.Delete); err != nil {
		return err
	}
	return notFound(s.reviewRepo.Delete(ctx, titleID, reviewID), "review")
}

// editable loads the review and checks that user may perform act on it.
// Anonymous callers are rejected before the lookup.
func (s *reviewService) editable(ctx context.Context, user *models.User, titleID, reviewID int64, act permission.Action) (*models.Review, error) {
	actor := permission.ActorOf(user)
	if !actor.Authenticated {
		return nil, permission.ErrAuthenticationRequired
	}

	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound(err, "review")
	}
	if err := permission.Authorize(actor, permission.Review, act, review.AuthorID == user.ID); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	exists, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	return nil
}
