package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/vbonduro/cafeapi/internal/domain"
	"github.com/vbonduro/cafeapi/internal/store"
	"github.com/vbonduro/cafeapi/internal/validation"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyStore    = errors.New("no cafes in the database")
	ErrNotAuthorized = errors.New("not authorized")
	ErrConflict      = errors.New("cafe already exists")
)

// ValidationError reports malformed request input.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// cafeRepository is the subset of store.CafeStore that CafeService requires.
type cafeRepository interface {
	Create(ctx context.Context, c *domain.Cafe) (*domain.Cafe, error)
	GetByID(ctx context.Context, id int64) (*domain.Cafe, error)
	List(ctx context.Context) ([]*domain.Cafe, error)
	ListByLocation(ctx context.Context, loc string) ([]*domain.Cafe, error)
	UpdatePrice(ctx context.Context, id int64, price string) error
	Delete(ctx context.Context, id int64) error
}

type CafeService struct {
	cafes    cafeRepository
	apiKey   string
	currency string
	logger   *slog.Logger
}

func NewCafeService(cafes cafeRepository, apiKey, currency string, logger *slog.Logger) *CafeService {
	return &CafeService{
		cafes:    cafes,
		apiKey:   apiKey,
		currency: currency,
		logger:   logger,
	}
}

// RandomCafe picks uniformly among the rows present at call time.
func (s *CafeService) RandomCafe(ctx context.Context) (*domain.Cafe, error) {
	cafes, err := s.cafes.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(cafes) == 0 {
		return nil, ErrEmptyStore
	}
	return cafes[rand.Intn(len(cafes))], nil
}

func (s *CafeService) AllCafes(ctx context.Context) ([]*domain.Cafe, error) {
	cafes, err := s.cafes.List(ctx)
	if err != nil {
		return nil, err
	}
	if cafes == nil {
		cafes = []*domain.Cafe{}
	}
	return cafes, nil
}

func (s *CafeService) SearchByLocation(ctx context.Context, loc string) ([]*domain.Cafe, error) {
	cafes, err := s.cafes.ListByLocation(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(cafes) == 0 {
		return nil, ErrNotFound
	}
	return cafes, nil
}

// AddCafeInput carries the raw form values of an add request.
type AddCafeInput struct {
	Name     string `form:"name" validate:"required,max=250"`
	MapURL   string `form:"map_url" validate:"required,max=500"`
	ImgURL   string `form:"img_url" validate:"required,max=500"`
	Location string `form:"loc" validate:"required,max=250"`
	Seats    string `form:"seats" validate:"required,max=250"`
	Toilet   string `form:"toilet" validate:"required,oneof=0 1"`
	Wifi     string `form:"wifi" validate:"required,oneof=0 1"`
	Sockets  string `form:"sockets" validate:"required,oneof=0 1"`
	Calls    string `form:"calls" validate:"required,oneof=0 1"`
	Price    string `form:"price" validate:"omitempty,numeric,max=240"`
}

func (s *CafeService) AddCafe(ctx context.Context, in AddCafeInput) (*domain.Cafe, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, &ValidationError{Err: err}
	}

	cafe := &domain.Cafe{
		Name:         in.Name,
		MapURL:       in.MapURL,
		ImgURL:       in.ImgURL,
		Location:     in.Location,
		Seats:        in.Seats,
		HasToilet:    in.Toilet == "1",
		HasWifi:      in.Wifi == "1",
		HasSockets:   in.Sockets == "1",
		CanTakeCalls: in.Calls == "1",
	}
	if in.Price != "" {
		price := s.formatPrice(in.Price)
		cafe.CoffeePrice = &price
	}

	created, err := s.cafes.Create(ctx, cafe)
	if errors.Is(err, store.ErrDuplicateName) {
		return nil, fmt.Errorf("%w: %q", ErrConflict, in.Name)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("cafe added", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *CafeService) UpdatePrice(ctx context.Context, id int64, price string) error {
	if err := validation.Var("price", price, "required,numeric,max=240"); err != nil {
		return &ValidationError{Err: err}
	}

	cafe, err := s.cafes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cafe == nil {
		return ErrNotFound
	}

	// The row can vanish between the lookup and the write.
	if err := s.cafes.UpdatePrice(ctx, id, s.formatPrice(price)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("cafe price updated", "id", id)
	return nil
}

// ReportClosed deletes a cafe once the caller's key matches the configured
// one. The comparison is a plain string equality and is not constant-time.
func (s *CafeService) ReportClosed(ctx context.Context, id int64, apiKey string) error {
	if apiKey == "" || apiKey != s.apiKey {
		s.logger.Warn("rejected report_closed with invalid api key", "id", id)
		return ErrNotAuthorized
	}

	cafe, err := s.cafes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cafe == nil {
		return ErrNotFound
	}

	if err := s.cafes.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("cafe reported closed", "id", id, "name", cafe.Name)
	return nil
}

func (s *CafeService) formatPrice(price string) string {
	return s.currency + price
}
