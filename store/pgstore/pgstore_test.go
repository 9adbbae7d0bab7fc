package pgstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mhallsworth/sessiongate"
)

func testStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func expectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

const (
	selectQuery = `select username, password_hash, email from identities where username=$1`
	insertQuery = `insert into identities(username, password_hash, email) values($1,$2,$3)`
	updateQuery = `update identities set password_hash=$1 where username=$2`
)

func TestFindIdentity(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("alice42").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "email"}).
			AddRow("alice42", "h1", "alice@example.com"))

	rec, err := store.FindIdentity(context.Background(), "alice42")
	if err != nil {
		t.Fatalf("FindIdentity: %v", err)
	}
	if rec.Username != "alice42" || rec.PasswordHash != "h1" || rec.Email != "alice@example.com" {
		t.Fatalf("record = %+v", rec)
	}
	expectations(t, mock)
}

func TestFindIdentityMiss(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("nobody99").
		WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "email"}))

	if _, err := store.FindIdentity(context.Background(), "nobody99"); !errors.Is(err, sessiongate.ErrUnknownIdentity) {
		t.Fatalf("miss = %v, want ErrUnknownIdentity", err)
	}
	expectations(t, mock)
}

func TestFindIdentityConnectivity(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("alice42").
		WillReturnError(errors.New("connection reset by peer"))

	if _, err := store.FindIdentity(context.Background(), "alice42"); !errors.Is(err, sessiongate.ErrStoreUnavailable) {
		t.Fatalf("broken backend = %v, want ErrStoreUnavailable", err)
	}
	expectations(t, mock)
}

func TestStoreIdentity(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs("alice42", "h1", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.StoreIdentity(context.Background(), sessiongate.IdentityRecord{
		Username:     "alice42",
		PasswordHash: "h1",
	})
	if err != nil {
		t.Fatalf("StoreIdentity: %v", err)
	}
	expectations(t, mock)
}

func TestStoreIdentityDuplicate(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs("alice42", "h1", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "identities_pkey"})

	err := store.StoreIdentity(context.Background(), sessiongate.IdentityRecord{
		Username:     "alice42",
		PasswordHash: "h1",
	})
	if !errors.Is(err, sessiongate.ErrDuplicateIdentity) {
		t.Fatalf("duplicate = %v, want ErrDuplicateIdentity", err)
	}
	expectations(t, mock)
}

func TestUpdatePasswordHash(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("h2", "alice42").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdatePasswordHash(context.Background(), "alice42", "h2"); err != nil {
		t.Fatalf("UpdatePasswordHash: %v", err)
	}
	expectations(t, mock)
}

func TestUpdatePasswordHashMissingRow(t *testing.T) {
	store, mock := testStore(t)

	mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
		WithArgs("h2", "nobody99").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.UpdatePasswordHash(context.Background(), "nobody99", "h2"); !errors.Is(err, sessiongate.ErrUnknownIdentity) {
		t.Fatalf("missing row = %v, want ErrUnknownIdentity", err)
	}
	expectations(t, mock)
}
