package repository

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
)

type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

// Transactor runs a function inside a database transaction. Services depend
// on this interface so the transactional flow can be exercised without a
// live database.
type Transactor interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

func (r *Repository) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	return WithTransaction(r.GoquDBWrapper, fn)
}

func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
