package mysql

import (
	"errors"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Embedded migrations", func() {
	read := func(r io.ReadCloser, _ string, err error) string {
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()
		body, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		return string(body)
	}

	It("pairs an up and a down script with every version", func() {
		src, err := iofs.New(migrationFS, "migrations")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(src.Close)

		var versions []uint
		v, err := src.First()
		for err == nil {
			versions = append(versions, v)
			Expect(read(src.ReadUp(v))).NotTo(BeEmpty())
			Expect(read(src.ReadDown(v))).To(ContainSubstring("DROP TABLE"))
			v, err = src.Next(v)
		}
		Expect(errors.Is(err, fs.ErrNotExist)).To(BeTrue(), "walk ended with %v", err)
		Expect(versions).To(Equal([]uint{1, 2}))
	})

	It("bounds release_year on both ends", func() {
		src, err := iofs.New(migrationFS, "migrations")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(src.Close)

		Expect(read(src.ReadUp(1))).To(ContainSubstring("CHECK (release_year BETWEEN 1895 AND 9999)"))
	})
})
