package migrate

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockManager(t *testing.T, files fstest.MapFS) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(db, files), mock
}

func TestUpAppliesPendingInOrder(t *testing.T) {
	files := fstest.MapFS{
		"0001_users.up.sql":  {Data: []byte("create table users (id text);")},
		"0002_extras.up.sql": {Data: []byte("create table extras (id text);\ncreate index idx on extras (id);")},
	}
	mgr, mock := newMockManager(t, files)

	mock.ExpectExec("create table if not exists schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_users.up.sql"))

	// only 0002 is pending
	mock.ExpectBegin()
	mock.ExpectExec("create table extras").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create index idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec("insert into schema_migrations").
		WithArgs("0002_extras.up.sql", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := mgr.Up(context.Background()); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDownRollsBackLast(t *testing.T) {
	files := fstest.MapFS{
		"0001_users.up.sql":   {Data: []byte("create table users (id text);")},
		"0001_users.down.sql": {Data: []byte("drop table users;")},
	}
	mgr, mock := newMockManager(t, files)

	mock.ExpectExec("create table if not exists schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations order by applied_at").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_users.up.sql"))
	mock.ExpectBegin()
	mock.ExpectExec("drop table users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec("delete from schema_migrations where name").
		WithArgs("0001_users.up.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := mgr.Down(context.Background()); err != nil {
		t.Fatalf("Down: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDownWithoutHistory(t *testing.T) {
	mgr, mock := newMockManager(t, fstest.MapFS{})

	mock.ExpectExec("create table if not exists schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations order by applied_at").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	if err := mgr.Down(context.Background()); err == nil {
		t.Fatal("expected error when nothing is applied")
	}
}

func TestDownMissingFile(t *testing.T) {
	files := fstest.MapFS{
		"0001_users.up.sql": {Data: []byte("create table users (id text);")},
	}
	mgr, mock := newMockManager(t, files)

	mock.ExpectExec("create table if not exists schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_migrations order by applied_at").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_users.up.sql"))

	if err := mgr.Down(context.Background()); err == nil {
		t.Fatal("expected error for missing down migration")
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`insert into t values ('a;b'); create index i on t (c);`)
	if len(stmts) != 2 {
		t.Fatalf("len = %d, want 2: %q", len(stmts), stmts)
	}
}
