package services

import (
	"context"
	"crate/internal/database"
	"database/sql"
	"errors"
	"fmt"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type TransactionFunc func(context.Context, *gorm.DB) error

// TransactionRunner is the transaction surface the import services depend on.
type TransactionRunner interface {
	Execute(ctx context.Context, fn TransactionFunc) error
	Nested(ctx context.Context, tx *gorm.DB, fn TransactionFunc) error
}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside one database transaction. The transaction commits
// when fn returns nil and rolls back on error or panic. A panic whose
// rollback also fails is re-raised.
func (ts *TransactionService) Execute(ctx context.Context, fn TransactionFunc) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			log.Info("transaction rolled back after panic")
			err = panicErr
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil && !isTxDone(rollbackErr) {
			log.Er("failed to rollback after commit error", rollbackErr)
		}
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

// Nested runs fn inside a savepoint of tx. A failing fn undoes only its own
// writes and leaves tx usable. A nil tx starts a fresh transaction.
func (ts *TransactionService) Nested(ctx context.Context, tx *gorm.DB, fn TransactionFunc) error {
	if tx == nil {
		return ts.Execute(ctx, fn)
	}

	return tx.WithContext(ctx).Transaction(func(nested *gorm.DB) error {
		return fn(ctx, nested)
	})
}

func isTxDone(err error) bool {
	return errors.Is(err, sql.ErrTxDone) || errors.Is(err, gorm.ErrInvalidTransaction)
}
