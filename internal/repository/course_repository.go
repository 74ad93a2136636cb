package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

const courseColumns = `id, category_id, tutor_id, title, slug, description, level,
	duration_hours, price_paise, thumbnail_url, published, created_at, updated_at`

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func scanCourse(row interface{ Scan(...interface{}) error }, c *model.Course) error {
	return row.Scan(&c.ID, &c.CategoryID, &c.TutorID, &c.Title, &c.Slug, &c.Description,
		&c.Level, &c.DurationHours, &c.PricePaise, &c.ThumbnailURL, &c.Published,
		&c.CreatedAt, &c.UpdatedAt)
}

// ListPublished retrieves published courses matching the filter, with pagination.
func (r *CourseRepository) ListPublished(ctx context.Context, f model.CourseFilter) ([]model.Course, int, error) {
	where := ` WHERE c.published = TRUE`
	var args []interface{}
	argIdx := 1

	if f.CategorySlug != "" {
		where += ` AND c.category_id = (SELECT id FROM categories WHERE slug = $` + strconv.Itoa(argIdx) + `)`
		args = append(args, f.CategorySlug)
		argIdx++
	}
	if f.Level != "" {
		where += ` AND c.level = $` + strconv.Itoa(argIdx)
		args = append(args, f.Level)
		argIdx++
	}
	if f.Search != "" {
		where += ` AND (c.title ILIKE $` + strconv.Itoa(argIdx) + ` OR c.description ILIKE $` + strconv.Itoa(argIdx) + `)`
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses c`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := f.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	query := `SELECT c.id, c.category_id, c.tutor_id, c.title, c.slug, c.description, c.level,
		c.duration_hours, c.price_paise, c.thumbnail_url, c.published, c.created_at, c.updated_at
		FROM courses c` + where +
		` ORDER BY c.created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

// ListAll retrieves every course regardless of publication state, for admin views.
func (r *CourseRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Course, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, 0, err
		}
		courses = append(courses, c)
	}
	return courses, total, rows.Err()
}

// GetByID retrieves a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetBySlug retrieves a published course by its slug.
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*model.Course, error) {
	c := &model.Course{}
	err := scanCourse(r.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE slug = $1 AND published = TRUE`, slug), c)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByIDs retrieves courses for the given IDs. Missing IDs are simply absent
// from the result.
func (r *CourseRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (category_id, tutor_id, title, slug, description, level,
			duration_hours, price_paise, thumbnail_url, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		c.CategoryID, c.TutorID, c.Title, c.Slug, c.Description, c.Level,
		c.DurationHours, c.PricePaise, c.ThumbnailURL, c.Published,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Update modifies a course.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET category_id = $1, tutor_id = $2, title = $3, slug = $4,
			description = $5, level = $6, duration_hours = $7, price_paise = $8,
			thumbnail_url = $9, published = $10, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $11`,
		c.CategoryID, c.TutorID, c.Title, c.Slug, c.Description, c.Level,
		c.DurationHours, c.PricePaise, c.ThumbnailURL, c.Published, c.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Delete removes a course by ID.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
