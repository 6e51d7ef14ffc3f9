package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"avatarShop/internal/domain"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("cannot ping db: %w", err)
	}
	r := &PostgresRepo{db: db}
	if err := r.bootstrap(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepo) CreateUser(ctx context.Context, name, passwordHash string) (int, error) {
	query := `INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id;`
	var newID int
	if err := r.db.QueryRowContext(ctx, query, name, passwordHash).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrUserExists
		}
		return 0, errors.Wrap(err, "repo: CreateUser")
	}
	return newID, nil
}

func (r *PostgresRepo) GetUserByName(ctx context.Context, name string) (*domain.User, error) {
	query := `SELECT id, name, password_hash, gold, hat, shirt, pants FROM users WHERE name = $1;`
	return scanUser(r.db.QueryRowContext(ctx, query, name), "GetUserByName")
}

func (r *PostgresRepo) GetUserByID(ctx context.Context, id int) (*domain.User, error) {
	query := `SELECT id, name, password_hash, gold, hat, shirt, pants FROM users WHERE id = $1;`
	return scanUser(r.db.QueryRowContext(ctx, query, id), "GetUserByID")
}

func scanUser(row *sql.Row, op string) (*domain.User, error) {
	u := &domain.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Gold, &u.Hat, &u.Shirt, &u.Pants); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: "+op)
	}
	return u, nil
}

func (r *PostgresRepo) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	query := `SELECT u.id, u.name, u.gold, u.hat, u.shirt, u.pants, COUNT(ui.item_id)
	          FROM users u LEFT JOIN user_items ui ON u.id = ui.user_id
	          GROUP BY u.id
	          ORDER BY u.id;`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "repo: ListUsers")
	}
	defer rows.Close()

	var res []domain.UserSummary
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Gold, &u.Hat, &u.Shirt, &u.Pants, &u.ItemCount); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *PostgresRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT id, name, category, price FROM items ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "repo: ListItems")
	}
	defer rows.Close()

	var res []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price); err != nil {
			return nil, err
		}
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *PostgresRepo) GetItem(ctx context.Context, id int) (*domain.Item, error) {
	query := `SELECT id, name, category, price FROM items WHERE id = $1;`
	it := &domain.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.Category, &it.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "repo: GetItem")
	}
	return it, nil
}

func (r *PostgresRepo) ListOwnedItemIDs(ctx context.Context, userID int) ([]int, error) {
	query := `SELECT item_id FROM user_items WHERE user_id = $1 ORDER BY item_id;`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "repo: ListOwnedItemIDs")
	}
	defer rows.Close()

	var res []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

func (r *PostgresRepo) OwnsItem(ctx context.Context, userID, itemID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_items WHERE user_id = $1 AND item_id = $2);`
	var owns bool
	if err := r.db.QueryRowContext(ctx, query, userID, itemID).Scan(&owns); err != nil {
		return false, errors.Wrap(err, "repo: OwnsItem")
	}
	return owns, nil
}

func (r *PostgresRepo) AddGold(ctx context.Context, userID, amount int) error {
	query := `UPDATE users SET gold = gold + $1 WHERE id = $2;`
	res, err := r.db.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return errors.Wrap(err, "repo: AddGold")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetSlot updates the equipped item reference of the slot belonging to
// category. The category comes from the catalog, never from the client.
func (r *PostgresRepo) SetSlot(ctx context.Context, userID int, category string, itemID int) error {
	var query string
	switch category {
	case domain.CategoryHat:
		query = `UPDATE users SET hat = $1 WHERE id = $2;`
	case domain.CategoryShirt:
		query = `UPDATE users SET shirt = $1 WHERE id = $2;`
	case domain.CategoryPants:
		query = `UPDATE users SET pants = $1 WHERE id = $2;`
	default:
		return errors.Errorf("repo: SetSlot: unknown category %q", category)
	}
	res, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return errors.Wrap(err, "repo: SetSlot")
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// PurchaseItem debits the price and records ownership in one
// transaction. The conditional UPDATE makes the check-then-debit atomic:
// of two concurrent purchases against a balance that covers only one,
// the second matches zero rows and its transaction rolls back.
func (r *PostgresRepo) PurchaseItem(ctx context.Context, userID, itemID, price int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "repo: PurchaseItem: begin")
	}
	res, err := tx.ExecContext(ctx, `UPDATE users SET gold = gold - $1 WHERE id = $2 AND gold >= $1`, price, userID)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "repo: PurchaseItem: debit")
	}
	rows, err := res.RowsAffected()
	if err != nil || rows == 0 {
		_ = tx.Rollback()
		return domain.ErrInsufficientGold
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO user_items (user_id, item_id) VALUES ($1, $2)`, userID, itemID)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err) {
			return domain.ErrItemAlreadyOwned
		}
		return errors.Wrap(err, "repo: PurchaseItem: grant")
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
