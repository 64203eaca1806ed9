package repository

import (
	"context"

	"github.com/todor147/EduCoachBack/internal/models"
)

type BannedWordRepository struct {
	db DBTX
}

func NewBannedWordRepository(db DBTX) *BannedWordRepository {
	return &BannedWordRepository{db: db}
}

func (r *BannedWordRepository) List(ctx context.Context) ([]models.BannedWord, error) {
	query := `
		SELECT id, word, created_at
		FROM banned_words
		ORDER BY word ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	words := make([]models.BannedWord, 0)
	for rows.Next() {
		var word models.BannedWord
		if err := rows.Scan(&word.ID, &word.Word, &word.CreatedAt); err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

func (r *BannedWordRepository) ListWords(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT word FROM banned_words`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	words := make([]string, 0)
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

func (r *BannedWordRepository) Add(ctx context.Context, word string) (*models.BannedWord, error) {
	query := `
		INSERT INTO banned_words (word)
		VALUES ($1)
		RETURNING id, word, created_at
	`
	var banned models.BannedWord
	err := r.db.QueryRow(ctx, query, word).Scan(&banned.ID, &banned.Word, &banned.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &banned, nil
}

func (r *BannedWordRepository) Remove(ctx context.Context, wordID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM banned_words WHERE id = $1`, wordID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
