package game

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrGameNotFound = errors.New("game not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, title string, price int64, image, genre string) (*Game, error) {
	g := &Game{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO games (title, price, image, genre)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, title, price, image, genre, created_at`,
		title, price, image, genre,
	).StructScan(g)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Game, error) {
	var games []Game
	err := r.db.SelectContext(ctx, &games, `
		SELECT id, title, price, image, genre, created_at
		FROM games
		ORDER BY title
	`)
	if err != nil {
		return nil, err
	}

	return games, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Game, error) {
	g := &Game{}
	err := r.db.GetContext(ctx, g, `
		SELECT id, title, price, image, genre, created_at
		FROM games
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	return g, nil
}
