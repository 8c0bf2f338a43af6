package swagger_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/civic-issue-tracker/api"
	"github.com/frahmantamala/civic-issue-tracker/internal/transport/swagger"
)

var _ = Describe("Docs", func() {
	It("should load and validate the published document", func() {
		docs, err := swagger.NewDocs(api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())

		doc := docs.Document()
		for _, path := range []string{
			"/issues",
			"/issues/{id}/status",
			"/issues/{id}/boost",
			"/timeline/{issueId}",
			"/users/{email}",
			"/create-payment-intent",
			"/dashboard/admin/stats",
		} {
			Expect(doc.Paths.Find(path)).NotTo(BeNil(), path)
		}
	})

	It("should reject a malformed document", func() {
		_, err := swagger.NewDocs([]byte("openapi: [not valid"))
		Expect(err).To(HaveOccurred())
	})

	It("should serve the raw document as yaml", func() {
		docs, err := swagger.NewDocs(api.OpenAPI)
		Expect(err).NotTo(HaveOccurred())

		rec := httptest.NewRecorder()
		docs.ServeSpec(rec, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/yaml"))
		Expect(rec.Body.Bytes()).To(Equal(api.OpenAPI))
	})
})
