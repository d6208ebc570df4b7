package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/opencamara/camara-server/internal/model"
)

type PresencaDAO struct {
	Logger *slog.Logger
	*DB
}

func NewPresencaDAO(logger *slog.Logger, db *DB) *PresencaDAO {
	return &PresencaDAO{
		Logger: logger.With("dao", "presenca"),
		DB:     db,
	}
}

// Upsert registers attendance for one member. A repeated registration
// for the same (sessao, vereador) pair rewrites the existing row instead
// of duplicating it.
func (dao *PresencaDAO) Upsert(ctx context.Context, sessao, vereador model.ID, presente bool) (model.Presenca, error) {
	logger := dao.Logger.With("query", "upsert")

	query, args, err := dao.Builder.
		Insert("presencas").
		Columns("sessao_id", "vereador_id", "presente").
		Values(sessao, vereador, presente).
		Suffix("ON CONFLICT (sessao_id, vereador_id) DO UPDATE SET presente = EXCLUDED.presente, registrado_em = now()").
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return model.Presenca{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var presenca model.Presenca
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&presenca); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsForeignKeyViolation(err) {
			if ViolatedConstraint(err) == "presencas_vereador_id_fkey" {
				return model.Presenca{}, model.NewError("vereador", model.ErrNotFound)
			}

			return model.Presenca{}, model.NewError("sessao", model.ErrNotFound)
		}

		return model.Presenca{}, err
	}

	return presenca, nil
}

// MarkAllPresent upserts a present=true row for every vereador of the
// given chamber, creating rows for members not yet registered. Returns
// the number of members processed.
func (dao *PresencaDAO) MarkAllPresent(ctx context.Context, sessao, camara model.ID) (int, error) {
	logger := dao.Logger.With("query", "markAllPresent")

	const query = `
INSERT INTO presencas (sessao_id, vereador_id, presente)
SELECT $1, id, true FROM users WHERE camara_id = $2 AND role = 'vereador'
ON CONFLICT (sessao_id, vereador_id)
DO UPDATE SET presente = true, registrado_em = now()`

	logger.Debug("build query", "sql", query, "args", []any{sessao, camara})

	res, err := dao.ExecContext(ctx, query, sessao, camara)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// MarkAllAbsent flips every existing attendance row of the session to
// absent. Members with no row are left without one: absence is the
// default, so no row needs to be created for them.
func (dao *PresencaDAO) MarkAllAbsent(ctx context.Context, sessao model.ID) (int, error) {
	query, args, err := dao.Builder.
		Update("presencas").
		SetMap(map[string]any{
			"presente":      false,
			"registrado_em": squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"sessao_id": sessao}).
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}

// IsPresent reports the member's attendance; a missing row means absent,
// not an error.
func (dao *PresencaDAO) IsPresent(ctx context.Context, vereador, sessao model.ID) (bool, error) {
	query, args, err := dao.Builder.
		Select("presente").
		From("presencas").
		Where(squirrel.Eq{"sessao_id": sessao, "vereador_id": vereador}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var presente bool
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&presente); err != nil {
		if IsNoRows(err) {
			return false, nil
		}

		return false, err
	}

	return presente, nil
}

func (dao *PresencaDAO) FindBySessao(ctx context.Context, sessao model.ID) ([]model.Presenca, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("presencas").
		Where(squirrel.Eq{"sessao_id": sessao}).
		OrderBy("vereador_id ASC").
		ToSql()
	if err != nil {
		return []model.Presenca{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	presencas := make([]model.Presenca, 0)
	if err := dao.SelectContext(ctx, &presencas, query, args...); err != nil {
		return []model.Presenca{}, err
	}

	return presencas, nil
}

const _countPresencaQuery = `
SELECT
    COUNT(*)                              AS total,
    COUNT(*) FILTER (WHERE presente)      AS presentes,
    COUNT(*) FILTER (WHERE NOT presente)  AS ausentes
FROM presencas
WHERE sessao_id = $1`

func (dao *PresencaDAO) Count(ctx context.Context, sessao model.ID) (model.ContagemPresenca, error) {
	dao.Logger.Debug("query", "sql", _countPresencaQuery, "args", []any{sessao})

	var contagem model.ContagemPresenca
	if err := dao.GetContext(ctx, &contagem, _countPresencaQuery, sessao); err != nil {
		return model.ContagemPresenca{}, err
	}

	return contagem, nil
}
