package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	catalogmysql "github.com/cinedex/catalog-api/internal/adapters/mysql"
	"github.com/cinedex/catalog-api/internal/adapters/mysql/testutil"
)

var _ = Describe("Error mapping", func() {
	It("recognizes wrapped duplicate entries", func() {
		err := fmt.Errorf("insert: %w", &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
		Expect(catalogmysql.IsDuplicateEntry(err)).To(BeTrue())
		Expect(catalogmysql.IsForeignKeyViolation(err)).To(BeFalse())
	})

	It("recognizes foreign key violations", func() {
		err := &gomysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
		Expect(catalogmysql.IsForeignKeyViolation(err)).To(BeTrue())
	})

	It("ignores non-MySQL errors", func() {
		Expect(catalogmysql.IsDuplicateEntry(errors.New("boom"))).To(BeFalse())
	})
})

var _ = Describe("Open", func() {
	It("rejects an empty DSN", func() {
		_, err := catalogmysql.Open(context.Background(), catalogmysql.Options{})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed DSN", func() {
		_, err := catalogmysql.Open(context.Background(), catalogmysql.Options{DSN: "not a dsn"})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("WithTx", func() {
	var (
		db   *sql.DB
		mock sqlmock.Sqlmock
	)

	BeforeEach(func() {
		var err error
		db, mock, err = testutil.NewMockDB()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = db.Close()
	})

	It("commits when the callback succeeds", func() {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := catalogmysql.WithTx(context.Background(), db, func(*sql.Tx) error { return nil })
		Expect(err).NotTo(HaveOccurred())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("rolls back and returns the callback error", func() {
		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := catalogmysql.WithTx(context.Background(), db, func(*sql.Tx) error { return boom })
		Expect(err).To(MatchError(boom))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})
})
