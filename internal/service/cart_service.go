package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

// Cart errors.
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrAlreadyInCart  = errors.New("course already in cart")
	ErrCartEmpty      = errors.New("cart is empty")
)

const cartTTL = 30 * 24 * time.Hour

// CartService manages per-student carts in Redis. Each cart is a hash of
// course ID to the unix time it was added; pricing always reads the current
// catalog so stale cart entries can't lock in old prices.
type CartService struct {
	cfg     *config.Config
	courses *repository.CourseRepository
	rdb     *redis.Client
}

// NewCartService creates a new CartService.
func NewCartService(cfg *config.Config, courses *repository.CourseRepository, rdb *redis.Client) *CartService {
	return &CartService{cfg: cfg, courses: courses, rdb: rdb}
}

// Add puts a published course into the user's cart.
func (s *CartService) Add(ctx context.Context, userID, courseID int) (*model.CartSummary, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.Published {
		return nil, ErrCourseNotFound
	}

	key := config.CacheKey.UserCartKey(userID)
	added, err := s.rdb.HSetNX(ctx, key, strconv.Itoa(courseID), time.Now().Unix()).Result()
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	if !added {
		return nil, ErrAlreadyInCart
	}
	_ = s.rdb.Expire(ctx, key, cartTTL).Err()

	return s.Summary(ctx, userID)
}

// Remove takes a course out of the user's cart.
func (s *CartService) Remove(ctx context.Context, userID, courseID int) (*model.CartSummary, error) {
	key := config.CacheKey.UserCartKey(userID)
	if err := s.rdb.HDel(ctx, key, strconv.Itoa(courseID)).Err(); err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}
	return s.Summary(ctx, userID)
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, config.CacheKey.UserCartKey(userID)).Err()
}

// Summary prices the cart, applying the bundle discount when the item count
// reaches the configured threshold.
func (s *CartService) Summary(ctx context.Context, userID int) (*model.CartSummary, error) {
	entries, err := s.rdb.HGetAll(ctx, config.CacheKey.UserCartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}

	addedAt := make(map[int]time.Time, len(entries))
	ids := make([]int, 0, len(entries))
	for idStr, unixStr := range entries {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		if unix, err := strconv.ParseInt(unixStr, 10, 64); err == nil {
			addedAt[id] = time.Unix(unix, 0)
		}
	}

	courses, err := s.courses.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("price cart: %w", err)
	}

	summary := &model.CartSummary{Items: []model.CartItem{}}
	for _, c := range courses {
		if !c.Published {
			// Unpublished since it was added; drop silently.
			_ = s.rdb.HDel(ctx, config.CacheKey.UserCartKey(userID), strconv.Itoa(c.ID)).Err()
			continue
		}
		summary.Items = append(summary.Items, model.CartItem{
			CourseID:   c.ID,
			Title:      c.Title,
			PricePaise: c.PricePaise,
			AddedAt:    addedAt[c.ID],
		})
	}

	sort.Slice(summary.Items, func(i, j int) bool {
		return summary.Items[i].AddedAt.Before(summary.Items[j].AddedAt)
	})

	for _, it := range summary.Items {
		summary.SubtotalPaise += it.PricePaise
	}
	if len(summary.Items) >= s.cfg.BundleDiscountMinItems {
		summary.DiscountPercent = s.cfg.BundleDiscountPercent
		summary.DiscountPaise = discountOf(summary.SubtotalPaise, s.cfg.BundleDiscountPercent)
	}
	summary.TotalPaise = summary.SubtotalPaise - summary.DiscountPaise

	return summary, nil
}

// discountOf computes percent of amount in paise, rounding half up.
func discountOf(amountPaise int64, percent int) int64 {
	return (amountPaise*int64(percent) + 50) / 100
}
