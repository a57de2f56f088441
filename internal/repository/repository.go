package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gallery/internal/entity"
	"gallery/pkg/metric"
	"gallery/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type base struct {
	db      *postgres.Postgres
	metrics metric.Storage
}

func (b base) executer(q postgres.QueryExecuter) postgres.QueryExecuter {
	if q == nil {
		return b.db.Pool
	}
	return q
}

// observe records one repository call. A missing row is an answer, not a
// storage failure.
func (b base) observe(op string, start time.Time, err error) {
	if errors.Is(err, entity.ErrDataNotFound) {
		err = nil
	}
	b.metrics.ObserveQuery(op, time.Since(start), err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// queryAll runs query on the pool and scans every row with scan. An empty
// result is a non-nil empty slice.
func queryAll[T any](
	ctx context.Context,
	db *postgres.Postgres,
	op string,
	query squirrel.Sqlizer,
	scan func(pgx.Row) (T, error),
) ([]T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		item, scanErr := scan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s: row scan: %w", op, scanErr)
		}
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, err)
	}
	return result, nil
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func exists(
	ctx context.Context,
	db *postgres.Postgres,
	op, table, column, id string,
) (bool, error) {
	sql, args, err := db.Builder.Select("1").
		From(table).
		Where(squirrel.Eq{column: id}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: building query: %w", op, err)
	}

	var one int
	if err = db.Pool.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: query row: %w", op, err)
	}
	return true, nil
}

func deleteWhere(
	ctx context.Context,
	db *postgres.Postgres,
	queryExecuter postgres.QueryExecuter,
	op, table string,
	pred squirrel.Sqlizer,
) (int64, error) {
	sql, args, err := db.Builder.Delete(table).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := queryExecuter.Exec(ctx, sql, args...)
	if err != nil {
		return 0, writeError(op, err)
	}
	return tag.RowsAffected(), nil
}

// writeError wraps a failed write, naming foreign key rejections so they are
// recognisable in logs.
func writeError(op string, err error) error {
	if postgres.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: foreign key violation: %w", op, err)
	}
	return fmt.Errorf("%s: write: %w", op, err)
}
