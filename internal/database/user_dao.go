package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/opencamara/camara-server/internal/model"
)

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

type FindUserFilter struct {
	Camara  *model.ID
	Role    *model.Role
	Partido *string
}

func (dao *UserDAO) Find(ctx context.Context, filter FindUserFilter, opts FindOptions) ([]model.User, error) {
	logger := dao.Logger.With("query", "find")

	equals := squirrel.Eq{}
	if filter.Camara != nil {
		equals["camara_id"] = *filter.Camara
	}
	if filter.Role != nil {
		equals["role"] = *filter.Role
	}
	if filter.Partido != nil {
		equals["partido"] = *filter.Partido
	}

	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(equals).
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset)).
		OrderBy("nome ASC").
		ToSql()
	if err != nil {
		return []model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	users := make([]model.User, 0, opts.Limit)
	if err := dao.SelectContext(ctx, &users, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return []model.User{}, err
	}

	logger.Debug("success query execute", "countUsers", len(users))

	return users, nil
}

func (dao *UserDAO) Get(ctx context.Context, id model.ID) (model.User, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		return model.User{}, err
	}

	return user, nil
}

func (dao *UserDAO) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query, args, err := dao.Builder.
		Select("*").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		return model.User{}, err
	}

	return user, nil
}

type InsertUserDTO struct {
	Nome         string
	Email        string
	PasswordHash string
	Role         model.Role
	Partido      string
	Cargo        string
	Foto         *string
	Camara       model.ID
}

func (dao *UserDAO) Insert(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns("nome", "email", "password_hash", "role", "partido", "cargo", "foto", "camara_id").
		Values(dto.Nome, dto.Email, dto.PasswordHash, dto.Role, dto.Partido, dto.Cargo, dto.Foto, dto.Camara).
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
			return 0, model.NewError("user", model.ErrExists)
		}
		if IsForeignKeyViolation(err) {
			return 0, model.NewError("camara", model.ErrNotFound)
		}

		return 0, err
	}

	return id, nil
}

type UpdateUserDTO struct {
	Nome    *string
	Email   *string
	Partido *string
	Cargo   *string
	Foto    *string
}

func (dao *UserDAO) Update(ctx context.Context, id model.ID, dto UpdateUserDTO) error {
	data := make(map[string]any, 6)
	data["updated_at"] = time.Now()
	if dto.Nome != nil {
		data["nome"] = *dto.Nome
	}
	if dto.Email != nil {
		data["email"] = *dto.Email
	}
	if dto.Partido != nil {
		data["partido"] = *dto.Partido
	}
	if dto.Cargo != nil {
		data["cargo"] = *dto.Cargo
	}
	if dto.Foto != nil {
		data["foto"] = *dto.Foto
	}

	query, args, err := dao.Builder.
		Update("users").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	dao.Logger.Debug("query", "sql", query, "args", args)

	if _, err = dao.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			return model.NewError("user", model.ErrExists)
		}

		return err
	}

	return nil
}

func (dao *UserDAO) Delete(ctx context.Context, id model.ID) error {
	query, args, err := dao.Builder.
		Delete("users").
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

// PromoteToPresident makes the given member the chamber's Presidente in
// one transaction: the current chamber admin (if any) is demoted to
// vereador and stripped of the office, then the target is promoted to
// admin. Keeps the invariant of at most one admin, and at most one
// Presidente office holder, per chamber.
func (dao *UserDAO) PromoteToPresident(ctx context.Context, camara, vereador model.ID) error {
	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := dao.promoteToPresidentTx(ctx, tx, camara, vereador); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertPresident creates the member and runs the promotion in the same
// transaction, so a failure cannot leave a second office holder behind.
func (dao *UserDAO) InsertPresident(ctx context.Context, dto InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insertPresident")

	tx, err := dao.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query, args, err := dao.Builder.
		Insert("users").
		Columns("nome", "email", "password_hash", "role", "partido", "cargo", "foto", "camara_id").
		Values(dto.Nome, dto.Email, dto.PasswordHash, dto.Role, dto.Partido, dto.Cargo, dto.Foto, dto.Camara).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	row := tx.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("user", model.ErrExists)
		}
		if IsForeignKeyViolation(err) {
			return 0, model.NewError("camara", model.ErrNotFound)
		}

		return 0, err
	}

	if err := dao.promoteToPresidentTx(ctx, tx, dto.Camara, id); err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

func (dao *UserDAO) promoteToPresidentTx(ctx context.Context, tx *sqlx.Tx, camara, vereador model.ID) error {
	logger := dao.Logger.With("query", "promoteToPresident")

	demote, demoteArgs, err := dao.Builder.
		Update("users").
		SetMap(map[string]any{
			"role":       model.RoleVereador,
			"cargo":      "",
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"camara_id": camara, "role": model.RoleAdmin}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", demote, "args", demoteArgs)

	if _, err := tx.ExecContext(ctx, demote, demoteArgs...); err != nil {
		return err
	}

	promote, promoteArgs, err := dao.Builder.
		Update("users").
		SetMap(map[string]any{
			"role":       model.RoleAdmin,
			"cargo":      model.CargoPresidente,
			"updated_at": time.Now(),
		}).
		Where(squirrel.Eq{"id": vereador, "camara_id": camara}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", promote, "args", promoteArgs)

	res, err := tx.ExecContext(ctx, promote, promoteArgs...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.NewError("vereador", model.ErrNotFound)
	}

	return nil
}
