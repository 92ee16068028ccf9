package directorrepo

import (
	"context"
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cinedex/catalog-api/internal/adapters/mysql/testutil"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
)

var _ = Describe("Repo", func() {
	var (
		ctx  context.Context
		db   *sql.DB
		mock sqlmock.Sqlmock
		repo *Repo
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, mock, err = testutil.NewMockDB()
		Expect(err).NotTo(HaveOccurred())
		repo = NewRepo(db)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		_ = db.Close()
	})

	Describe("GetByName", func() {
		It("returns the matching row", func() {
			mock.ExpectQuery(`SELECT id, name FROM directors WHERE name = \?`).
				WithArgs("Agnes Varda").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(4), "Agnes Varda"))

			d, err := repo.GetByName(ctx, "Agnes Varda")
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(directorrepo.Director{ID: 4, Name: "Agnes Varda"}))
		})

		It("maps no rows to ErrNotFound", func() {
			mock.ExpectQuery(`SELECT id, name FROM directors WHERE name = \?`).
				WithArgs("Nobody").
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

			_, err := repo.GetByName(ctx, "Nobody")
			Expect(err).To(MatchError(directorrepo.ErrNotFound))
		})
	})

	Describe("FindOrCreate", func() {
		It("reports a new row when one row is affected", func() {
			mock.ExpectExec(`ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID\(id\)`).
				WithArgs("Bong Joon-ho").
				WillReturnResult(sqlmock.NewResult(11, 1))

			d, created, err := repo.FindOrCreate(ctx, "Bong Joon-ho")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(d.ID).To(BeEquivalentTo(11))
		})

		It("returns the existing row when nothing changed", func() {
			mock.ExpectExec(`ON DUPLICATE KEY UPDATE`).
				WithArgs("Bong Joon-ho").
				WillReturnResult(sqlmock.NewResult(3, 0))

			d, created, err := repo.FindOrCreate(ctx, "Bong Joon-ho")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(d.ID).To(BeEquivalentTo(3))
		})
	})

	Describe("Update", func() {
		It("treats an unchanged name as success", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE directors SET name = \? WHERE id = \?`).
				WithArgs("Agnes Varda", int64(4)).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(`SELECT id, name FROM directors WHERE id = \?`).
				WithArgs(int64(4)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(4), "Agnes Varda"))
			mock.ExpectCommit()

			Expect(repo.Update(ctx, directorrepo.Director{ID: 4, Name: "Agnes Varda"})).To(Succeed())
		})

		It("returns ErrNotFound for an unknown id", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE directors`).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(`SELECT id, name FROM directors WHERE id = \?`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
			mock.ExpectRollback()

			err := repo.Update(ctx, directorrepo.Director{ID: 99, Name: "Nobody"})
			Expect(err).To(MatchError(directorrepo.ErrNotFound))
		})

		It("maps duplicate entries to ErrNameTaken", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE directors`).
				WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			mock.ExpectRollback()

			err := repo.Update(ctx, directorrepo.Director{ID: 4, Name: "Taken"})
			Expect(err).To(MatchError(directorrepo.ErrNameTaken))
		})
	})

	Describe("List", func() {
		It("returns directors in id order", func() {
			mock.ExpectQuery(`SELECT id, name FROM directors ORDER BY id`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
					AddRow(int64(1), "Agnes Varda").
					AddRow(int64(2), "Bong Joon-ho"))

			ds, err := repo.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ds).To(HaveLen(2))
			Expect(ds[1].Name).To(Equal("Bong Joon-ho"))
		})
	})

	Describe("Delete", func() {
		It("deletes movies and the director in one transaction", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM movies WHERE director_id = \?`).
				WithArgs(int64(2)).
				WillReturnResult(sqlmock.NewResult(0, 3))
			mock.ExpectExec(`DELETE FROM directors WHERE id = \?`).
				WithArgs(int64(2)).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			Expect(repo.Delete(ctx, 2)).To(Succeed())
		})

		It("returns ErrNotFound and rolls back for an unknown id", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM movies`).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(`DELETE FROM directors`).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectRollback()

			Expect(repo.Delete(ctx, 2)).To(MatchError(directorrepo.ErrNotFound))
		})
	})
})
