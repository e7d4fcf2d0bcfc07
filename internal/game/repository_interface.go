package game

import "context"

type Repository interface {
	Create(ctx context.Context, title string, price int64, image, genre string) (*Game, error)
	GetAll(ctx context.Context) ([]Game, error)
	GetByID(ctx context.Context, id int) (*Game, error)
}
