package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/vidshelf/internal/domain/video"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

var videoColumns = []string{
	"id", "channel_id", "created_by", "title", "description", "thumbnail_url", "preview_url", "full_url",
	"is_premium", "price_cents", "currency", "is_published", "published_at", "created_at", "updated_at",
}

type postgresVideoRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresVideoRepo(db *pgxpool.Pool, log logger.Logger) video.Repository {
	return &postgresVideoRepo{db: db, logger: log}
}

func scanVideo(row pgx.Row) (*video.Video, error) {
	v := &video.Video{}
	err := row.Scan(
		&v.ID,
		&v.ChannelID,
		&v.CreatedBy,
		&v.Title,
		&v.Description,
		&v.ThumbnailURL,
		&v.PreviewURL,
		&v.FullURL,
		&v.IsPremium,
		&v.PriceCents,
		&v.Currency,
		&v.IsPublished,
		&v.PublishedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("video", "")
		}
		return nil, apperror.NewInternal("failed to scan video row", err)
	}
	return v, nil
}

func scanVideos(rows pgx.Rows) ([]*video.Video, error) {
	defer rows.Close()
	videos := make([]*video.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating video rows", err)
	}
	return videos, nil
}

func (r *postgresVideoRepo) Save(ctx context.Context, v *video.Video) error {
	query, args, err := psql.Insert("videos").
		Columns(videoColumns...).
		Values(v.ID, v.ChannelID, v.CreatedBy, v.Title, v.Description, v.ThumbnailURL, v.PreviewURL, v.FullURL,
			v.IsPremium, v.PriceCents, v.Currency, v.IsPublished, v.PublishedAt, v.CreatedAt, v.UpdatedAt).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build insert video query", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return apperror.NewInternal("failed to save video", err)
	}
	return nil
}

// Update writes the editable fields only. is_published and published_at are
// owned by UpdatePublication.
func (r *postgresVideoRepo) Update(ctx context.Context, v *video.Video) error {
	query, args, err := psql.Update("videos").
		SetMap(map[string]any{
			"title":         v.Title,
			"description":   v.Description,
			"thumbnail_url": v.ThumbnailURL,
			"preview_url":   v.PreviewURL,
			"full_url":      v.FullURL,
			"is_premium":    v.IsPremium,
			"price_cents":   v.PriceCents,
			"currency":      v.Currency,
			"updated_at":    v.UpdatedAt,
		}).
		Where(sq.Eq{"id": v.ID, "channel_id": v.ChannelID}).
		ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build update video query", err)
	}
	return r.exec(ctx, query, args, v.ID)
}

func (r *postgresVideoRepo) UpdatePublication(ctx context.Context, v *video.Video) (bool, error) {
	query, args, err := psql.Update("videos").
		Set("is_published", v.IsPublished).
		Set("published_at", v.PublishedAt).
		Set("updated_at", v.UpdatedAt).
		Where(sq.Eq{"id": v.ID, "channel_id": v.ChannelID}).
		Where(sq.NotEq{"is_published": v.IsPublished}).
		ToSql()
	if err != nil {
		return false, apperror.NewInternal("failed to build publish video query", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, apperror.NewInternal("failed to update video publication", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *postgresVideoRepo) exec(ctx context.Context, query string, args []any, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewInternal("failed to update video", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("video", id.String())
	}
	return nil
}

func (r *postgresVideoRepo) FindInChannel(ctx context.Context, id, channelID uuid.UUID) (*video.Video, error) {
	return r.findOne(ctx, sq.Eq{"id": id, "channel_id": channelID})
}

func (r *postgresVideoRepo) FindPublishedByID(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	return r.findOne(ctx, sq.Eq{"id": id, "is_published": true})
}

func (r *postgresVideoRepo) findOne(ctx context.Context, where sq.Eq) (*video.Video, error) {
	query, args, err := psql.Select(videoColumns...).From("videos").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find video query", err)
	}
	return scanVideo(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresVideoRepo) ListByChannel(ctx context.Context, channelID uuid.UUID) ([]*video.Video, error) {
	return r.list(ctx, sq.Eq{"channel_id": channelID})
}

func (r *postgresVideoRepo) ListPublishedByChannel(ctx context.Context, channelID uuid.UUID) ([]*video.Video, error) {
	return r.list(ctx, sq.Eq{"channel_id": channelID, "is_published": true})
}

func (r *postgresVideoRepo) list(ctx context.Context, where sq.Eq) ([]*video.Video, error) {
	query, args, err := psql.Select(videoColumns...).
		From("videos").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list videos query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query videos", err)
	}
	return scanVideos(rows)
}
