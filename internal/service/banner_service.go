package service

import (
	"context"
	"strings"

	"streamlearn/internal/model"
	"streamlearn/internal/repository"
)

type BannerService interface {
	ListBanners(ctx context.Context) ([]model.Banner, error)
	CreateBanner(ctx context.Context, b *model.Banner) (*model.Banner, error)
	UpdateBanner(ctx context.Context, b *model.Banner) (*model.Banner, error)
	GetBanner(ctx context.Context, id int64) (*model.Banner, error)
	ToggleBanner(ctx context.Context, id int64) (*model.Banner, error)
	DeleteBanner(ctx context.Context, id int64) error
}

type bannerService struct {
	repo repository.BannerRepository
}

func NewBannerService(repo repository.BannerRepository) BannerService {
	return &bannerService{repo: repo}
}

func (s *bannerService) ListBanners(ctx context.Context) ([]model.Banner, error) {
	return s.repo.ListBanners(ctx, false)
}

func (s *bannerService) CreateBanner(ctx context.Context, b *model.Banner) (*model.Banner, error) {
	if strings.TrimSpace(b.ButtonText) == "" {
		b.ButtonText = model.DefaultBannerButtonText
	}
	if err := s.repo.CreateBanner(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *bannerService) UpdateBanner(ctx context.Context, b *model.Banner) (*model.Banner, error) {
	if strings.TrimSpace(b.ButtonText) == "" {
		b.ButtonText = model.DefaultBannerButtonText
	}
	if err := s.repo.UpdateBanner(ctx, b); err != nil {
		return nil, notFoundAs(err, ErrBannerNotFound)
	}
	return b, nil
}

func (s *bannerService) GetBanner(ctx context.Context, id int64) (*model.Banner, error) {
	b, err := s.repo.GetBannerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBannerNotFound
	}
	return b, nil
}

func (s *bannerService) ToggleBanner(ctx context.Context, id int64) (*model.Banner, error) {
	b, err := s.GetBanner(ctx, id)
	if err != nil {
		return nil, err
	}
	b.IsActive = !b.IsActive
	return s.UpdateBanner(ctx, b)
}

func (s *bannerService) DeleteBanner(ctx context.Context, id int64) error {
	return notFoundAs(s.repo.DeleteBanner(ctx, id), ErrBannerNotFound)
}
