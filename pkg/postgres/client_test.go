package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
)

type failingRollback struct{}

func (failingRollback) Connect(context.Context) (driver.Conn, error) { return fakeConn{}, nil }
func (failingRollback) Driver() driver.Driver                        { return nil }

type fakeConn struct{}

func (fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (fakeConn) Close() error                        { return nil }
func (fakeConn) Begin() (driver.Tx, error)           { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return errors.New("connection reset") }

func TestInTxKeepsCallerError(t *testing.T) {
	db := sql.OpenDB(failingRollback{})
	defer db.Close()
	client := FromDB(db)

	sentinel := errors.New("duplicate snapshot")
	err := client.InTx(context.Background(), func(*sql.Tx) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want it to wrap the transaction error", err)
	}
}

func TestInTxCommits(t *testing.T) {
	db := sql.OpenDB(failingRollback{})
	defer db.Close()
	if err := FromDB(db).InTx(context.Background(), func(*sql.Tx) error { return nil }); err != nil {
		t.Fatal(err)
	}
}
