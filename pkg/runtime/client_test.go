package runtime_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolhq/spool/pkg/runtime"
)

var _ = Describe("Client", func() {
	const arn = "arn:aws:bedrock-agentcore:us-west-2:123456789012:runtime/demo"

	var (
		server   *httptest.Server
		received *http.Request
		reqBody  []byte
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received = r.Clone(context.Background())
			reqBody, _ = io.ReadAll(r.Body)

			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = io.WriteString(w, "data: {\"content\":\"hi\"}\n\ndata: [DONE]\n\n")
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Invoke", func() {
		It("posts the prompt to the escaped invocation path", func() {
			c := runtime.NewClient(runtime.ClientConfig{Endpoint: server.URL})

			resp, err := c.Invoke(context.Background(), runtime.InvokeRequest{
				RuntimeARN: arn,
				SessionID:  runtime.NewSessionID(),
				Prompt:     "what is 2+2",
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(received.Method).To(Equal(http.MethodPost))
			Expect(received.URL.Query().Get("qualifier")).To(Equal("DEFAULT"))

			// The ARN must be path-escaped into a single path segment.
			Expect(received.URL.EscapedPath()).To(Equal("/runtimes/" + url.PathEscape(arn) + "/invocations"))

			var payload map[string]string
			Expect(json.Unmarshal(reqBody, &payload)).To(Succeed())
			Expect(payload).To(HaveKeyWithValue("prompt", "what is 2+2"))
		})

		It("carries the session header", func() {
			c := runtime.NewClient(runtime.ClientConfig{Endpoint: server.URL})
			sessionID := runtime.NewSessionID()

			resp, err := c.Invoke(context.Background(), runtime.InvokeRequest{
				RuntimeARN: arn,
				SessionID:  sessionID,
				Prompt:     "hello",
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(received.Header.Get(runtime.SessionHeader)).To(Equal(sessionID))
		})

		It("sends a bearer token when configured", func() {
			c := runtime.NewClient(runtime.ClientConfig{Endpoint: server.URL, BearerToken: "tok-123"})

			resp, err := c.Invoke(context.Background(), runtime.InvokeRequest{
				RuntimeARN: arn,
				SessionID:  runtime.NewSessionID(),
				Prompt:     "hello",
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(received.Header.Get("Authorization")).To(Equal("Bearer tok-123"))
		})

		It("returns the content type and streaming body", func() {
			c := runtime.NewClient(runtime.ClientConfig{Endpoint: server.URL})

			resp, err := c.Invoke(context.Background(), runtime.InvokeRequest{
				RuntimeARN: arn,
				SessionID:  runtime.NewSessionID(),
				Prompt:     "hello",
			})
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.ContentType).To(Equal("text/event-stream"))

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`{"content":"hi"}`))
		})

		It("requires an ARN and a session ID", func() {
			c := runtime.NewClient(runtime.ClientConfig{Endpoint: server.URL})

			_, err := c.Invoke(context.Background(), runtime.InvokeRequest{SessionID: "s", Prompt: "p"})
			Expect(err).To(MatchError(ContainSubstring("runtime ARN")))

			_, err = c.Invoke(context.Background(), runtime.InvokeRequest{RuntimeARN: arn, Prompt: "p"})
			Expect(err).To(MatchError(ContainSubstring("session ID")))
		})

		It("surfaces non-2xx responses with the body text", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "runtime not ready", http.StatusServiceUnavailable)
			}))
			defer failing.Close()

			c := runtime.NewClient(runtime.ClientConfig{Endpoint: failing.URL})

			_, err := c.Invoke(context.Background(), runtime.InvokeRequest{
				RuntimeARN: arn,
				SessionID:  runtime.NewSessionID(),
				Prompt:     "hello",
			})
			Expect(err).To(MatchError(ContainSubstring("503")))
			Expect(err).To(MatchError(ContainSubstring("runtime not ready")))
		})
	})

	Describe("NewSessionID", func() {
		It("meets the 33-character minimum and is unique", func() {
			a := runtime.NewSessionID()
			b := runtime.NewSessionID()

			Expect(len(a)).To(BeNumerically(">=", 33))
			Expect(a).To(HavePrefix("spool-"))
			Expect(a).NotTo(Equal(b))
		})
	})
})
