package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitalpath/admin/internal/models"
)

var ErrMediaNotFound = errors.New("media object not found")

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func (r *MediaRepository) Create(ctx context.Context, media models.MediaObject) error {
	const query = `
		INSERT INTO media_objects (
			id, uploader_id, bucket, object_key, mime_type, size_bytes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		media.ID,
		media.UploaderID,
		media.Bucket,
		media.ObjectKey,
		media.MimeType,
		media.SizeBytes,
	)
	return err
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (models.MediaObject, error) {
	const query = `
		SELECT id, uploader_id, bucket, object_key, mime_type, size_bytes, created_at
		FROM media_objects
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var media models.MediaObject
	if err := row.Scan(
		&media.ID,
		&media.UploaderID,
		&media.Bucket,
		&media.ObjectKey,
		&media.MimeType,
		&media.SizeBytes,
		&media.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MediaObject{}, ErrMediaNotFound
		}
		return models.MediaObject{}, err
	}
	return media, nil
}

func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]models.MediaObject, error) {
	const query = `
		SELECT id, uploader_id, bucket, object_key, mime_type, size_bytes, created_at
		FROM media_objects
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var objects []models.MediaObject
	for rows.Next() {
		var media models.MediaObject
		if err := rows.Scan(
			&media.ID,
			&media.UploaderID,
			&media.Bucket,
			&media.ObjectKey,
			&media.MimeType,
			&media.SizeBytes,
			&media.CreatedAt,
		); err != nil {
			return nil, err
		}
		objects = append(objects, media)
	}
	return objects, rows.Err()
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM media_objects WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}
