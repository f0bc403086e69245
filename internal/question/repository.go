package question

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads the curated question pool from Postgres. Answers are
// stored as a JSONB array so a question and its synonym sets travel
// together.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchPool returns the full pool in insertion order. Selection works on
// positional indices, so the order must be stable across reads.
func (r *Repository) FetchPool(ctx context.Context) ([]Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, prompt, answers, is_true_false FROM questions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var (
			q       Question
			answers []byte
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &answers, &q.IsTrueFalse); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(answers, &q.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return questions, nil
}

// Insert stores a new question at the end of the pool, minting an ID when
// the caller did not supply one.
func (r *Repository) Insert(ctx context.Context, q Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO questions (question_id, prompt, answers, is_true_false, position)
		 VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(position), -1) + 1 FROM questions))`,
		q.ID, q.Prompt, answers, q.IsTrueFalse)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}
