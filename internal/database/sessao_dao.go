package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/opencamara/camara-server/internal/model"
)

type SessaoDAO struct {
	Logger *slog.Logger
	*DB
}

func NewSessaoDAO(logger *slog.Logger, db *DB) *SessaoDAO {
	return &SessaoDAO{
		Logger: logger.With("dao", "sessao"),
		DB:     db,
	}
}

type FindSessaoFilter struct {
	Camara *model.ID
	Status *model.SessaoStatus
	De     *time.Time
	Ate    *time.Time
}

func (dao *SessaoDAO) Find(ctx context.Context, filter FindSessaoFilter, opts FindOptions) ([]model.Sessao, error) {
	builder := dao.Builder.
		Select("*").
		From("sessoes")

	if filter.Camara != nil {
		builder = builder.Where(squirrel.Eq{"camara_id": *filter.Camara})
	}
	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.De != nil {
		builder = builder.Where(squirrel.GtOrEq{"data_sessao": *filter.De})
	}
	if filter.Ate != nil {
		builder = builder.Where(squirrel.LtOrEq{"data_sessao": *filter.Ate})
	}

	query, args, err := builder.
		OrderBy("data_sessao DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return []model.Sessao{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	sessoes := make([]model.Sessao, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &sessoes, query, args...); err != nil {
		return []model.Sessao{}, err
	}

	return sessoes, nil
}

func (dao *SessaoDAO) Get(ctx context.Context, id model.ID) (model.Sessao, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("sessoes").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Sessao{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var sessao model.Sessao
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&sessao); err != nil {
		if IsNoRows(err) {
			return model.Sessao{}, model.NewError("sessao", model.ErrNotFound)
		}

		return model.Sessao{}, err
	}

	return sessao, nil
}

type InsertSessaoDTO struct {
	Titulo    string
	Descricao string
	Data      time.Time
	Tipo      model.SessaoTipo
	Camara    model.ID
}

func (dao *SessaoDAO) Insert(ctx context.Context, dto InsertSessaoDTO) (model.ID, error) {
	query, args, err := dao.Builder.
		Insert("sessoes").
		Columns("titulo", "descricao", "data_sessao", "tipo", "camara_id").
		Values(dto.Titulo, dto.Descricao, dto.Data, dto.Tipo, dto.Camara).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		if IsForeignKeyViolation(err) {
			return 0, model.NewError("camara", model.ErrNotFound)
		}

		return 0, err
	}

	return id, nil
}

type UpdateSessaoDTO struct {
	Titulo    *string
	Descricao *string
	Data      *time.Time
	Tipo      *model.SessaoTipo
}

func (dao *SessaoDAO) Update(ctx context.Context, id model.ID, dto UpdateSessaoDTO) error {
	data := make(map[string]any, 5)
	data["updated_at"] = time.Now()
	if dto.Titulo != nil {
		data["titulo"] = *dto.Titulo
	}
	if dto.Descricao != nil {
		data["descricao"] = *dto.Descricao
	}
	if dto.Data != nil {
		data["data_sessao"] = *dto.Data
	}
	if dto.Tipo != nil {
		data["tipo"] = *dto.Tipo
	}

	query, args, err := dao.Builder.
		Update("sessoes").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
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

// UpdateStatus moves the session from one status to another. The
// transition predicate is re-checked in the WHERE clause so a racing
// transition loses cleanly instead of clobbering the row.
func (dao *SessaoDAO) UpdateStatus(ctx context.Context, id model.ID, from, to model.SessaoStatus) error {
	query, args, err := dao.Builder.
		Update("sessoes").
		SetMap(map[string]any{
			"status":     to,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.NewError("sessao", model.ErrInvalidTransition)
	}

	return nil
}

func (dao *SessaoDAO) Delete(ctx context.Context, id model.ID) error {
	query, args, err := dao.Builder.
		Delete("sessoes").
		Where(squirrel.Eq{"id": id}).
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
