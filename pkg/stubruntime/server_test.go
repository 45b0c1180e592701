package stubruntime_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolhq/spool/pkg/agentstream"
	"github.com/spoolhq/spool/pkg/runtime"
	"github.com/spoolhq/spool/pkg/stubruntime"
)

var _ = Describe("Server", func() {
	var (
		server  *stubruntime.Server
		baseURL string
	)

	BeforeEach(func() {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		baseURL = fmt.Sprintf("http://%s", listener.Addr())

		server = stubruntime.NewServer(stubruntime.Config{})
		go func() {
			defer GinkgoRecover()
			_ = server.RunWithListener(listener)
		}()

		DeferCleanup(server.Shutdown)

		// Wait for the server to accept connections.
		Eventually(func() error {
			conn, err := net.DialTimeout("tcp", listener.Addr().String(), 100*time.Millisecond)
			if err == nil {
				conn.Close()
			}
			return err
		}).Should(Succeed())
	})

	It("streams the default script as SSE and drains to a transcript", func() {
		client := runtime.NewClient(runtime.ClientConfig{Endpoint: baseURL})
		resp, err := client.Invoke(context.Background(), runtime.InvokeRequest{
			RuntimeARN: "arn:aws:bedrock-agentcore:us-west-2:123456789012:runtime/stub",
			SessionID:  runtime.NewSessionID(),
			Prompt:     "hello stub",
		})
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.ContentType).To(ContainSubstring("text/event-stream"))

		var out bytes.Buffer
		d := agentstream.NewDrainer(&out, nil)
		transcript, err := d.Drain(resp.ContentType, resp.Body)
		Expect(err).NotTo(HaveOccurred())

		Expect(transcript).To(Equal("Hello! This is the spool stub runtime. Streaming works end to end."))
		Expect(out.String()).To(ContainSubstring("[tool] current_time"))
		Expect(out.String()).To(ContainSubstring("[status] initializing"))
	})

	It("rejects invocations without a long-enough session ID", func() {
		client := runtime.NewClient(runtime.ClientConfig{Endpoint: baseURL})
		_, err := client.Invoke(context.Background(), runtime.InvokeRequest{
			RuntimeARN: "arn:stub",
			SessionID:  "short",
			Prompt:     "hi",
		})
		Expect(err).To(MatchError(ContainSubstring("session ID must be at least 33 characters")))
	})
})

var _ = Describe("Script", func() {
	Describe("DefaultScript", func() {
		It("contains only valid JSON events", func() {
			script := stubruntime.DefaultScript()
			Expect(script.Events).NotTo(BeEmpty())

			for _, raw := range script.Events {
				var event map[string]any
				Expect(json.Unmarshal(raw, &event)).To(Succeed())
			}
		})
	})

	Describe("LoadScript", func() {
		It("loads a script from a JSON file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "script.json")
			raw := `{"events": [{"status": "ok"}, {"content": "hi"}]}`
			Expect(os.WriteFile(path, []byte(raw), 0o600)).To(Succeed())

			script, err := stubruntime.LoadScript(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(script.Events).To(HaveLen(2))
		})

		It("rejects empty scripts", func() {
			path := filepath.Join(GinkgoT().TempDir(), "empty.json")
			Expect(os.WriteFile(path, []byte(`{"events": []}`), 0o600)).To(Succeed())

			_, err := stubruntime.LoadScript(path)
			Expect(err).To(MatchError(ContainSubstring("no events")))
		})

		It("errors on missing files", func() {
			_, err := stubruntime.LoadScript("/nonexistent/script.json")
			Expect(err).To(HaveOccurred())
		})
	})
})
