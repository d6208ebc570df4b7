package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/opencamara/camara-server/internal/model"
)

type ProjetoDAO struct {
	Logger *slog.Logger
	*DB
}

func NewProjetoDAO(logger *slog.Logger, db *DB) *ProjetoDAO {
	return &ProjetoDAO{
		Logger: logger.With("dao", "projeto"),
		DB:     db,
	}
}

type FindProjetoFilter struct {
	Sessao *model.ID
	Camara *model.ID
	Status *model.ProjetoStatus
}

func (dao *ProjetoDAO) Find(ctx context.Context, filter FindProjetoFilter, opts FindOptions) ([]model.Projeto, error) {
	equals := squirrel.Eq{}
	if filter.Sessao != nil {
		equals["sessao_id"] = *filter.Sessao
	}
	if filter.Camara != nil {
		equals["camara_id"] = *filter.Camara
	}
	if filter.Status != nil {
		equals["status"] = *filter.Status
	}

	query, args, err := dao.Builder.
		Select("*").
		From("projetos").
		Where(equals).
		OrderBy("data_apresentacao DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		ToSql()
	if err != nil {
		return []model.Projeto{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	projetos := make([]model.Projeto, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &projetos, query, args...); err != nil {
		return []model.Projeto{}, err
	}

	return projetos, nil
}

func (dao *ProjetoDAO) Get(ctx context.Context, id model.ID) (model.Projeto, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("projetos").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Projeto{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var projeto model.Projeto
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&projeto); err != nil {
		if IsNoRows(err) {
			return model.Projeto{}, model.NewError("projeto", model.ErrNotFound)
		}

		return model.Projeto{}, err
	}

	return projeto, nil
}

type InsertProjetoDTO struct {
	Titulo           string
	Descricao        string
	Autor            string
	DataApresentacao time.Time
	Sessao           model.ID
	Camara           model.ID
}

func (dao *ProjetoDAO) Insert(ctx context.Context, dto InsertProjetoDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("projetos").
		Columns("titulo", "descricao", "autor", "data_apresentacao", "sessao_id", "camara_id").
		Values(dto.Titulo, dto.Descricao, dto.Autor, dto.DataApresentacao, dto.Sessao, dto.Camara).
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

		if IsForeignKeyViolation(err) {
			if ViolatedConstraint(err) == "projetos_camara_id_fkey" {
				return 0, model.NewError("camara", model.ErrNotFound)
			}

			return 0, model.NewError("sessao", model.ErrNotFound)
		}

		return 0, err
	}

	return id, nil
}

type UpdateProjetoDTO struct {
	Titulo    *string
	Descricao *string
	Autor     *string
}

func (dao *ProjetoDAO) Update(ctx context.Context, id model.ID, dto UpdateProjetoDTO) error {
	data := make(map[string]any, 4)
	data["updated_at"] = time.Now()
	if dto.Titulo != nil {
		data["titulo"] = *dto.Titulo
	}
	if dto.Descricao != nil {
		data["descricao"] = *dto.Descricao
	}
	if dto.Autor != nil {
		data["autor"] = *dto.Autor
	}

	query, args, err := dao.Builder.
		Update("projetos").
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

// ForceUpdateProjetoDTO is the unconditional override: unlike Update it
// may also rewrite status, bypassing the state machine.
type ForceUpdateProjetoDTO struct {
	Titulo    *string
	Descricao *string
	Autor     *string
	Status    *model.ProjetoStatus
}

func (dao *ProjetoDAO) ForceUpdate(ctx context.Context, id model.ID, dto ForceUpdateProjetoDTO) error {
	data := make(map[string]any, 5)
	data["updated_at"] = time.Now()
	if dto.Titulo != nil {
		data["titulo"] = *dto.Titulo
	}
	if dto.Descricao != nil {
		data["descricao"] = *dto.Descricao
	}
	if dto.Autor != nil {
		data["autor"] = *dto.Autor
	}
	if dto.Status != nil {
		data["status"] = *dto.Status
	}

	query, args, err := dao.Builder.
		Update("projetos").
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

// UpdateStatus moves the project from one status to another, re-checking
// the current status in the WHERE clause.
func (dao *ProjetoDAO) UpdateStatus(ctx context.Context, id model.ID, from, to model.ProjetoStatus) error {
	query, args, err := dao.Builder.
		Update("projetos").
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
		return model.NewError("projeto", model.ErrInvalidState)
	}

	return nil
}

func (dao *ProjetoDAO) Delete(ctx context.Context, id model.ID) error {
	query, args, err := dao.Builder.
		Delete("projetos").
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

// FinalizarVotacao closes the ballot in one transaction: the project row
// is locked, the tally computed, and the terminal status derived from it
// is persisted. Votes landing after the lock is taken belong to the next
// request and will fail the em_votacao check.
func (dao *ProjetoDAO) FinalizarVotacao(ctx context.Context, id model.ID) (model.Projeto, model.ContagemVotos, error) {
	logger := dao.Logger.With("query", "finalizarVotacao")

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return model.Projeto{}, model.ContagemVotos{}, err
	}
	defer tx.Rollback()

	lock, lockArgs, err := dao.Builder.
		Select("*").
		From("projetos").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return model.Projeto{}, model.ContagemVotos{}, err
	}

	logger.Debug("build query", "sql", lock, "args", lockArgs)

	var projeto model.Projeto
	if err := tx.QueryRowxContext(ctx, lock, lockArgs...).StructScan(&projeto); err != nil {
		if IsNoRows(err) {
			return model.Projeto{}, model.ContagemVotos{}, model.NewError("projeto", model.ErrNotFound)
		}

		return model.Projeto{}, model.ContagemVotos{}, err
	}

	if !projeto.CanReceberVoto() {
		return model.Projeto{}, model.ContagemVotos{}, model.NewError("projeto", model.ErrInvalidState)
	}

	contagem, err := tallyVotos(ctx, tx, id)
	if err != nil {
		return model.Projeto{}, model.ContagemVotos{}, err
	}

	projeto.Status = contagem.Decidir()
	projeto.UpdatedAt = time.Now()

	update, updateArgs, err := dao.Builder.
		Update("projetos").
		SetMap(map[string]any{
			"status":     projeto.Status,
			"updated_at": projeto.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Projeto{}, model.ContagemVotos{}, err
	}

	logger.Debug("build query", "sql", update, "args", updateArgs)

	if _, err := tx.ExecContext(ctx, update, updateArgs...); err != nil {
		return model.Projeto{}, model.ContagemVotos{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Projeto{}, model.ContagemVotos{}, err
	}

	logger.Debug("ballot closed", "projetoId", id, "status", projeto.Status, "contagem", contagem)

	return projeto, contagem, nil
}
