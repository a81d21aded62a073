package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"product-catalog/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrAlreadyExists    = errors.New("record already exists")
	ErrInvalidValue     = errors.New("value violates a constraint")
)

// PostgreSQL error codes translated by translateError
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
	numericOutOfRange   = "22003"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Repositories bundles the catalog repositories bound to one connection or transaction.
type Repositories struct {
	Categories        CategoryRepository
	Attributes        AttributeRepository
	Products          ProductRepository
	ProductAttributes ProductAttributeRepository
}

// NewRepositories binds every repository to db
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Categories:        NewCategoryRepository(db),
		Attributes:        NewAttributeRepository(db),
		Products:          NewProductRepository(db),
		ProductAttributes: NewProductAttributeRepository(db),
	}
}

// Transactor runs a unit of work atomically. fn receives repositories bound to
// the transaction; returning an error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

type transactor struct {
	db *sqlx.DB
}

// NewTransactor creates a Transactor on top of a connection pool
func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(repos Repositories) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// translateError maps constraint violations reported by PostgreSQL to the
// package sentinels. Other errors are returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case foreignKeyViolation:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case uniqueViolation:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
	case checkViolation:
		if pgErr.ConstraintName == "products_price_positive" {
			return domain.ErrNonPositivePrice
		}
		return fmt.Errorf("%w: %s", ErrInvalidValue, pgErr.ConstraintName)
	case numericOutOfRange:
		return fmt.Errorf("%w: %s", ErrInvalidValue, pgErr.Message)
	}

	return err
}

// checkAffected converts a zero-row write into notFound.
func checkAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

// whereBuilder accumulates positional conditions for PostgreSQL queries.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition; every "?" in cond is bound to v.
func (b *whereBuilder) add(cond string, v interface{}) {
	b.args = append(b.args, v)
	b.conditions = append(b.conditions, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(b.args))))
}

func (b *whereBuilder) String() string {
	if len(b.conditions) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(b.conditions, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere in
// the value. Use it with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// orderBy resolves a client ordering such as "name" or "-created_time" against
// the allowed columns. Unknown fields fall back to fallback.
func orderBy(ordering string, allowed map[string]string, fallback string) string {
	direction := "ASC"
	field := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		field = ordering[1:]
	}

	column, ok := allowed[field]
	if !ok {
		return fallback
	}

	// id keeps the order stable between equal values
	return fmt.Sprintf("%s %s, id ASC", column, direction)
}
