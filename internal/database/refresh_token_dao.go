package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/opencamara/camara-server/internal/model"
)

type RefreshTokenDAO struct {
	Logger *slog.Logger
	*DB
}

func NewRefreshTokenDAO(logger *slog.Logger, db *DB) *RefreshTokenDAO {
	return &RefreshTokenDAO{
		Logger: logger.With("dao", "refreshToken"),
		DB:     db,
	}
}

func (dao *RefreshTokenDAO) Insert(ctx context.Context, user model.ID, tok string, expiresAt time.Time) error {
	query, args, err := dao.Builder.
		Insert("refresh_tokens").
		Columns("user_id", "token", "expires_at").
		Values(user, tok, expiresAt).
		ToSql()
	if err != nil {
		return err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

// Get resolves an opaque refresh token to its row. Expired tokens are
// treated as absent.
func (dao *RefreshTokenDAO) Get(ctx context.Context, tok string) (model.RefreshToken, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": tok}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.RefreshToken{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var refresh model.RefreshToken
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&refresh); err != nil {
		if IsNoRows(err) {
			return model.RefreshToken{}, model.NewError("refresh token", model.ErrNotFound)
		}

		return model.RefreshToken{}, err
	}

	return refresh, nil
}
