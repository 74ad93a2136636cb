package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CatalogService handles the public course catalog and its admin management.
type CatalogService struct {
	courses    *repository.CourseRepository
	categories *repository.CategoryRepository
	orders     *repository.OrderRepository
	log        zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	courses *repository.CourseRepository,
	categories *repository.CategoryRepository,
	orders *repository.OrderRepository,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		courses:    courses,
		categories: categories,
		orders:     orders,
		log:        log.With().Str("component", "catalog_service").Logger(),
	}
}

// CourseDetail is a course with its category and, for signed-in students,
// whether they already own it.
type CourseDetail struct {
	model.Course
	Category *model.Category `json:"category,omitempty"`
	Owned    bool            `json:"owned"`
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// BrowseCourses returns published courses matching the filter.
func (s *CatalogService) BrowseCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int, error) {
	courses, total, err := s.courses.ListPublished(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, total, nil
}

// GetCourse returns a published course by slug. userID of 0 means anonymous.
func (s *CatalogService) GetCourse(ctx context.Context, slug string, userID int) (*CourseDetail, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	detail := &CourseDetail{Course: *course}

	if category, err := s.categories.GetByID(ctx, course.CategoryID); err == nil {
		detail.Category = category
	}

	if userID != 0 {
		owned, err := s.orders.UserOwnsCourse(ctx, userID, course.ID)
		if err != nil {
			s.log.Warn().Err(err).Int("course_id", course.ID).Msg("Ownership check failed")
		}
		detail.Owned = owned
	}

	return detail, nil
}

// ─── Admin management ───────────────────────────────────────────────

// ListAllCourses returns every course for the admin panel.
func (s *CatalogService) ListAllCourses(ctx context.Context, limit, offset int) ([]model.Course, int, error) {
	courses, total, err := s.courses.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, total, nil
}

// CreateCourse adds a course to the catalog.
func (s *CatalogService) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("category not found")
		}
		return nil, err
	}

	course := &model.Course{
		CategoryID:    req.CategoryID,
		TutorID:       req.TutorID,
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		Level:         model.CourseLevel(req.Level),
		DurationHours: req.DurationHours,
		PricePaise:    req.PricePaise,
		ThumbnailURL:  req.ThumbnailURL,
		Published:     req.Published,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse modifies a course.
func (s *CatalogService) UpdateCourse(ctx context.Context, id int, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	course.CategoryID = req.CategoryID
	course.TutorID = req.TutorID
	course.Title = req.Title
	course.Slug = req.Slug
	course.Description = req.Description
	course.Level = model.CourseLevel(req.Level)
	course.DurationHours = req.DurationHours
	course.PricePaise = req.PricePaise
	course.ThumbnailURL = req.ThumbnailURL
	course.Published = req.Published

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course.
func (s *CatalogService) DeleteCourse(ctx context.Context, id int) error {
	return s.courses.Delete(ctx, id)
}

// CreateCategory adds a category.
func (s *CatalogService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory modifies a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int, req *model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("category not found")
		}
		return nil, err
	}

	category.Name = req.Name
	category.Slug = req.Slug
	category.Description = req.Description

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int) error {
	return s.categories.Delete(ctx, id)
}
