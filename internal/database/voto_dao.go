package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/opencamara/camara-server/internal/model"
)

type VotoDAO struct {
	Logger *slog.Logger
	*DB
}

func NewVotoDAO(logger *slog.Logger, db *DB) *VotoDAO {
	return &VotoDAO{
		Logger: logger.With("dao", "voto"),
		DB:     db,
	}
}

type InsertVotoDTO struct {
	Projeto  model.ID
	Vereador model.ID
	Tipo     model.TipoVoto
}

// Insert records the vote. The one-vote-per-member-per-project rule is
// the UNIQUE (projeto_id, vereador_id) index, not a prior lookup, so two
// concurrent submissions cannot both land.
func (dao *VotoDAO) Insert(ctx context.Context, dto InsertVotoDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("votos").
		Columns("projeto_id", "vereador_id", "tipo_voto").
		Values(dto.Projeto, dto.Vereador, dto.Tipo).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("voto", model.ErrExists)
		}
		if IsForeignKeyViolation(err) {
			if ViolatedConstraint(err) == "votos_vereador_id_fkey" {
				return 0, model.NewError("vereador", model.ErrNotFound)
			}

			return 0, model.NewError("projeto", model.ErrNotFound)
		}

		return 0, err
	}

	return id, nil
}

func (dao *VotoDAO) Get(ctx context.Context, id model.ID) (model.Voto, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("votos").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Voto{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var voto model.Voto
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&voto); err != nil {
		if IsNoRows(err) {
			return model.Voto{}, model.NewError("voto", model.ErrNotFound)
		}

		return model.Voto{}, err
	}

	return voto, nil
}

func (dao *VotoDAO) FindByProjeto(ctx context.Context, projeto model.ID) ([]model.Voto, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("votos").
		Where(squirrel.Eq{"projeto_id": projeto}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return []model.Voto{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	votos := make([]model.Voto, 0)
	if err := dao.SelectContext(ctx, &votos, query, args...); err != nil {
		return []model.Voto{}, err
	}

	return votos, nil
}

// Tally aggregates the ballot. A project with no votes tallies to zeros,
// never an error.
func (dao *VotoDAO) Tally(ctx context.Context, projeto model.ID) (model.ContagemVotos, error) {
	return tallyVotos(ctx, dao.DB, projeto)
}

const _tallyQuery = `
SELECT
    COUNT(*) FILTER (WHERE tipo_voto = 'sim')    AS sim,
    COUNT(*) FILTER (WHERE tipo_voto = 'nao')    AS nao,
    COUNT(*) FILTER (WHERE tipo_voto = 'abster') AS abster
FROM votos
WHERE projeto_id = $1`

// tallyVotos runs against either the pool or an open transaction, so the
// ballot close-out can tally under its row lock.
func tallyVotos(ctx context.Context, q sqlx.QueryerContext, projeto model.ID) (model.ContagemVotos, error) {
	var contagem model.ContagemVotos
	if err := sqlx.GetContext(ctx, q, &contagem, _tallyQuery, projeto); err != nil {
		return model.ContagemVotos{}, err
	}
	return contagem, nil
}
