package movierepo

import (
	"context"
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cinedex/catalog-api/internal/adapters/mysql/testutil"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

var movieColumns = []string{"id", "title", "release_year", "director_id", "name"}

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

	Describe("Create", func() {
		It("inserts and reads back the joined row", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO movies \(title, release_year, director_id\)`).
				WithArgs("Ran", 1985, int64(2)).
				WillReturnResult(sqlmock.NewResult(8, 1))
			mock.ExpectQuery(`JOIN directors d ON d.id = m.director_id WHERE m.id = \?`).
				WithArgs(int64(8)).
				WillReturnRows(sqlmock.NewRows(movieColumns).AddRow(int64(8), "Ran", 1985, int64(2), "Akira Kurosawa"))
			mock.ExpectCommit()

			m, err := repo.Create(ctx, movierepo.Movie{Title: "Ran", ReleaseYear: 1985, DirectorID: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(movierepo.Movie{ID: 8, Title: "Ran", ReleaseYear: 1985, DirectorID: 2, DirectorName: "Akira Kurosawa"}))
		})

		DescribeTable("maps constraint violations",
			func(number uint16, want error) {
				mock.ExpectBegin()
				mock.ExpectExec(`INSERT INTO movies`).
					WillReturnError(&gomysql.MySQLError{Number: number})
				mock.ExpectRollback()

				_, err := repo.Create(ctx, movierepo.Movie{Title: "Ran", ReleaseYear: 1985, DirectorID: 2})
				Expect(err).To(MatchError(want))
			},
			Entry("duplicate title", uint16(1062), movierepo.ErrTitleTaken),
			Entry("unknown director", uint16(1452), movierepo.ErrDirectorNotFound),
		)
	})

	Describe("Update", func() {
		It("returns ErrNotFound when the row is missing", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE movies SET title = \?, release_year = \?, director_id = \? WHERE id = \?`).
				WithArgs("Ran", 1985, int64(2), int64(77)).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(`WHERE m.id = \?`).
				WithArgs(int64(77)).
				WillReturnRows(sqlmock.NewRows(movieColumns))
			mock.ExpectRollback()

			_, err := repo.Update(ctx, movierepo.Movie{ID: 77, Title: "Ran", ReleaseYear: 1985, DirectorID: 2})
			Expect(err).To(MatchError(movierepo.ErrNotFound))
		})
	})

	Describe("ListByDirector", func() {
		It("filters by director and orders by id", func() {
			mock.ExpectQuery(`WHERE m.director_id = \? ORDER BY m.id`).
				WithArgs(int64(2)).
				WillReturnRows(sqlmock.NewRows(movieColumns).
					AddRow(int64(1), "Ikiru", 1952, int64(2), "Akira Kurosawa").
					AddRow(int64(8), "Ran", 1985, int64(2), "Akira Kurosawa"))

			ms, err := repo.ListByDirector(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ms).To(HaveLen(2))
			Expect(ms[0].Title).To(Equal("Ikiru"))
		})
	})

	Describe("Delete", func() {
		It("returns ErrNotFound when nothing was deleted", func() {
			mock.ExpectExec(`DELETE FROM movies WHERE id = \?`).
				WithArgs(int64(5)).
				WillReturnResult(sqlmock.NewResult(0, 0))

			Expect(repo.Delete(ctx, 5)).To(MatchError(movierepo.ErrNotFound))
		})
	})
})
