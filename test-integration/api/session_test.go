package integration

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/wordfinder/internal/api/common"
	"github.com/stacklok/wordfinder/test-integration/api/helpers"
)

var _ = Describe("Filtering Sessions", Label("sessions"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("sessions-test-")
		wordFile := helpers.WriteWordFile(tempDir, helpers.CreateTestWords())
		configFile := helpers.WriteConfigYAML(tempDir, wordFile, 2)

		var err error
		serverHelper, err = helpers.NewServerTestHelper(ctx, configFile)
		Expect(err).NotTo(HaveOccurred())
		Expect(serverHelper.StartServer()).To(Succeed())
		serverHelper.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		Expect(serverHelper.StopServer()).To(Succeed())
		cleanupTempDir(tempDir)
	})

	createSession := func() helpers.SessionResponse {
		resp, err := serverHelper.PostJSON("/api/v1/sessions", map[string]any{"language": "en"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))
		Expect(resp.Header.Get("Location")).NotTo(BeEmpty())

		var created helpers.SessionResponse
		helpers.DecodeBody(resp, &created)
		return created
	}

	Context("Narrowing a word list", func() {
		It("should apply constraints cumulatively", func() {
			created := createSession()
			Expect(created.Count).To(Equal(6))
			base := "/api/v1/sessions/" + created.ID

			By("excluding T")
			resp, err := serverHelper.PostJSON(base+"/exclude", map[string]string{"letters": "t"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var result helpers.SessionResponse
			helpers.DecodeBody(resp, &result)
			Expect(result.Words).To(Equal([]string{"CRANE", "GRACE", "PLACE", "HELLO", "APPLE"}))
			Expect(result.State.Excluded).To(Equal("T"))

			By("including A")
			resp, err = serverHelper.PostJSON(base+"/include", map[string]string{"letters": "a"})
			Expect(err).NotTo(HaveOccurred())
			helpers.DecodeBody(resp, &result)
			Expect(result.Words).To(Equal([]string{"CRANE", "GRACE", "PLACE", "APPLE"}))

			By("fixing the pattern")
			resp, err = serverHelper.PostJSON(base+"/pattern", map[string]string{"pattern": "??ace"})
			Expect(err).NotTo(HaveOccurred())
			helpers.DecodeBody(resp, &result)
			Expect(result.Words).To(Equal([]string{"GRACE", "PLACE"}))
			Expect(result.State.Pattern).To(Equal("??ACE"))

			By("reading the remaining words")
			resp, err = serverHelper.Get(base + "/words")
			Expect(err).NotTo(HaveOccurred())
			var words struct {
				Words []string `json:"words"`
				Count int      `json:"count"`
			}
			helpers.DecodeBody(resp, &words)
			Expect(words.Count).To(Equal(2))
		})

		It("should reject letters that conflict with earlier constraints", func() {
			created := createSession()
			base := "/api/v1/sessions/" + created.ID

			resp, err := serverHelper.PostJSON(base+"/exclude", map[string]string{"letters": "e"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())

			resp, err = serverHelper.PostJSON(base+"/include", map[string]string{"letters": "e"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusConflict))
			var conflict common.ErrorResponse
			helpers.DecodeBody(resp, &conflict)
			Expect(conflict.Letters).To(Equal("E"))

			By("leaving the session unchanged")
			resp, err = serverHelper.Get(base)
			Expect(err).NotTo(HaveOccurred())
			var view helpers.SessionResponse
			helpers.DecodeBody(resp, &view)
			Expect(view.State.Included).To(BeEmpty())
			Expect(view.State.Excluded).To(Equal("E"))
		})

		It("should restore the original words on reset", func() {
			created := createSession()
			base := "/api/v1/sessions/" + created.ID

			resp, err := serverHelper.PostJSON(base+"/exclude", map[string]string{"letters": "aeiou"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())

			resp, err = serverHelper.PostJSON(base+"/reset", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var view helpers.SessionResponse
			helpers.DecodeBody(resp, &view)
			Expect(view.Count).To(Equal(6))
			Expect(view.State.Excluded).To(BeEmpty())
		})
	})

	Context("Session lifecycle", func() {
		It("should forget deleted sessions", func() {
			created := createSession()
			base := "/api/v1/sessions/" + created.ID

			resp, err := serverHelper.Delete(base)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

			resp, err = serverHelper.Get(base)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should refuse sessions beyond the configured cap", func() {
			createSession()
			createSession()

			resp, err := serverHelper.PostJSON("/api/v1/sessions", map[string]any{"language": "en"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})

		It("should reject malformed session ids", func() {
			resp, err := serverHelper.Get("/api/v1/sessions/not-a-uuid")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Body.Close()).To(Succeed())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})
})
