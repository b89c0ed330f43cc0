package repository

import (
	"context"
	"database/sql"
	"errors"

	"streamlearn/internal/model"
)

type BannerRepository interface {
	ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error)
	GetBannerByID(ctx context.Context, id int64) (*model.Banner, error)
	CreateBanner(ctx context.Context, b *model.Banner) error
	UpdateBanner(ctx context.Context, b *model.Banner) error
	DeleteBanner(ctx context.Context, id int64) error
}

type bannerRepo struct {
	db *sql.DB
}

func NewBannerRepo(db *sql.DB) BannerRepository {
	return &bannerRepo{db: db}
}

const bannerColumns = `id, title, description, image, link, button_text, is_active, created_at, updated_at`

func scanBanner(row rowScanner) (*model.Banner, error) {
	var b model.Banner
	if err := row.Scan(&b.BannerID, &b.Title, &b.Description, &b.Image, &b.Link, &b.ButtonText, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBanners returns banners newest first.
func (r *bannerRepo) ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banners := []model.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, *b)
	}
	return banners, rows.Err()
}

func (r *bannerRepo) GetBannerByID(ctx context.Context, id int64) (*model.Banner, error) {
	b, err := scanBanner(r.db.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM banners WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *bannerRepo) CreateBanner(ctx context.Context, b *model.Banner) error {
	query := `
		INSERT INTO banners (title, description, image, link, button_text, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, b.Title, b.Description, b.Image, b.Link, b.ButtonText, b.IsActive).
		Scan(&b.BannerID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *bannerRepo) UpdateBanner(ctx context.Context, b *model.Banner) error {
	query := `
		UPDATE banners
		SET title = $1, description = $2, image = $3, link = $4, button_text = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, b.Title, b.Description, b.Image, b.Link, b.ButtonText, b.IsActive, b.BannerID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *bannerRepo) DeleteBanner(ctx context.Context, id int64) error {
	return expectOneRow(rowsAffected(r.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)))
}
