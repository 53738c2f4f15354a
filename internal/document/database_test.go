package document

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/license-verifier/internal/verification"
)

var _ = Describe("BoltDB", func() {
	var (
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	record := func(id string, created time.Time) *Verification {
		return &Verification{
			ID:           id,
			DocumentType: DocumentTypeDriverLicense,
			Filename:     id + "_license.jpg",
			ContentType:  "image/jpeg",
			Decision: verification.Decision{
				Status:        verification.StatusRejected,
				Reason:        verification.ReasonExpired,
				ExtractedInfo: map[string]string{"name": "John Smith"},
			},
			CreatedAt: created,
		}
	}

	Describe("SaveVerification", func() {
		It("should round trip the record", func() {
			created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
			Expect(db.SaveVerification(record("test-id", created))).To(Succeed())

			saved, err := db.GetVerification("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved).To(Equal(record("test-id", created)))
		})

		It("should survive a reopen", func() {
			Expect(db.SaveVerification(record("test-id", time.Now()))).To(Succeed())
			Expect(db.Close()).To(Succeed())

			var err error
			db, err = NewBoltDB(dbPath)
			Expect(err).NotTo(HaveOccurred())
			_, err = db.GetVerification("test-id")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("GetVerification", func() {
		When("the verification does not exist", func() {
			It("should return ErrNotFound", func() {
				_, err := db.GetVerification("missing")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("ListVerifications", func() {
		When("the database is empty", func() {
			It("should return an empty list", func() {
				list, err := db.ListVerifications()
				Expect(err).NotTo(HaveOccurred())
				Expect(list).To(BeEmpty())
				Expect(list).NotTo(BeNil())
			})
		})

		When("there are several verifications", func() {
			BeforeEach(func() {
				base := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
				Expect(db.SaveVerification(record("a", base))).To(Succeed())
				Expect(db.SaveVerification(record("b", base.Add(2*time.Hour)))).To(Succeed())
				Expect(db.SaveVerification(record("c", base.Add(time.Hour)))).To(Succeed())
			})

			It("should return the newest first", func() {
				list, err := db.ListVerifications()
				Expect(err).NotTo(HaveOccurred())
				ids := make([]string, len(list))
				for i, v := range list {
					ids[i] = v.ID
				}
				Expect(ids).To(Equal([]string{"b", "c", "a"}))
			})
		})
	})

	Describe("DeleteVerification", func() {
		It("should remove the record", func() {
			Expect(db.SaveVerification(record("test-id", time.Now()))).To(Succeed())
			Expect(db.DeleteVerification("test-id")).To(Succeed())
			_, err := db.GetVerification("test-id")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})
})
