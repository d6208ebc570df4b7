package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/opencamara/camara-server/internal/model"
)

type CamaraDAO struct {
	Logger *slog.Logger
	*DB
}

func NewCamaraDAO(logger *slog.Logger, db *DB) *CamaraDAO {
	return &CamaraDAO{
		Logger: logger.With("dao", "camara"),
		DB:     db,
	}
}

func (dao *CamaraDAO) Find(ctx context.Context, opts FindOptions) ([]model.Camara, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("camaras").
		OrderBy("nome ASC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return []model.Camara{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	camaras := make([]model.Camara, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &camaras, query, args...); err != nil {
		return []model.Camara{}, err
	}

	return camaras, nil
}

func (dao *CamaraDAO) Get(ctx context.Context, id model.ID) (model.Camara, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("camaras").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Camara{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var camara model.Camara
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&camara); err != nil {
		if IsNoRows(err) {
			return model.Camara{}, model.NewError("camara", model.ErrNotFound)
		}

		return model.Camara{}, err
	}

	return camara, nil
}

type InsertCamaraDTO struct {
	Nome      string
	Municipio string
	UF        string
}

func (dao *CamaraDAO) Insert(ctx context.Context, dto InsertCamaraDTO) (model.ID, error) {
	query, args, err := dao.Builder.
		Insert("camaras").
		Columns("nome", "municipio", "uf").
		Values(dto.Nome, dto.Municipio, dto.UF).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

type UpdateCamaraDTO struct {
	Nome      *string
	Municipio *string
	UF        *string
}

func (dao *CamaraDAO) Update(ctx context.Context, id model.ID, dto UpdateCamaraDTO) error {
	data := make(map[string]any, 4)
	data["updated_at"] = time.Now()
	if dto.Nome != nil {
		data["nome"] = *dto.Nome
	}
	if dto.Municipio != nil {
		data["municipio"] = *dto.Municipio
	}
	if dto.UF != nil {
		data["uf"] = *dto.UF
	}

	query, args, err := dao.Builder.
		Update("camaras").
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

func (dao *CamaraDAO) Delete(ctx context.Context, id model.ID) error {
	query, args, err := dao.Builder.
		Delete("camaras").
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
