package integration

import (
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stacklok/wordfinder/test-integration/api/helpers"
)

var _ = Describe("Stateless Search", Label("search"), func() {
	var (
		tempDir      string
		serverHelper *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		tempDir = createTempDir("search-test-")
		wordFile := helpers.WriteWordFile(tempDir, helpers.CreateTestWords())
		configFile := helpers.WriteConfigYAML(tempDir, wordFile, 10)

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

	It("should require repeated letters as many times as requested", func() {
		resp, err := serverHelper.PostJSON("/api/v1/search", map[string]any{
			"language": "en",
			"length":   0,
			"included": "ll",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var result helpers.SessionResponse
		helpers.DecodeBody(resp, &result)
		Expect(result.Words).To(Equal([]string{"HELLO", "HALL"}))
		Expect(result.State.Included).To(Equal("LL"))
	})

	It("should report pattern letters that are excluded", func() {
		resp, err := serverHelper.PostJSON("/api/v1/search", map[string]any{
			"language": "en",
			"length":   5,
			"excluded": "c",
			"pattern":  "??ace",
		})
		Expect(err).NotTo(HaveOccurred())

		var result helpers.SessionResponse
		helpers.DecodeBody(resp, &result)
		Expect(result.Words).To(BeEmpty())
		Expect(result.Contradictions).To(Equal("C"))
	})

	It("should reject unsupported languages", func() {
		resp, err := serverHelper.PostJSON("/api/v1/search", map[string]any{"language": "english"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Body.Close()).To(Succeed())
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("should expose metrics for served requests", func() {
		resp, err := serverHelper.PostJSON("/api/v1/search", map[string]any{"language": "en"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Body.Close()).To(Succeed())

		resp, err = serverHelper.Get("/metrics")
		Expect(err).NotTo(HaveOccurred())
		defer func() {
			_ = resp.Body.Close()
		}()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring(`wordfinder_http_requests_total`))
		Expect(string(body)).To(ContainSubstring(`wordfinder_filter_operations_total`))
	})
})
