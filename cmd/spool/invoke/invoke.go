// Package invokecmder provides the invoke command for sending a prompt to
// an agent runtime and streaming the response to the terminal.
package invokecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spoolhq/spool/pkg/agentstream"
	"github.com/spoolhq/spool/pkg/cliui"
	"github.com/spoolhq/spool/pkg/config"
	"github.com/spoolhq/spool/pkg/dotdir"
	"github.com/spoolhq/spool/pkg/eventstream"
	eventkafka "github.com/spoolhq/spool/pkg/eventstream/kafka"
	"github.com/spoolhq/spool/pkg/eventstream/nop"
	"github.com/spoolhq/spool/pkg/history"
	historyinmemory "github.com/spoolhq/spool/pkg/history/inmemory"
	historypostgres "github.com/spoolhq/spool/pkg/history/postgres"
	historysqlite "github.com/spoolhq/spool/pkg/history/sqlite"
	"github.com/spoolhq/spool/pkg/history/worker"
	"github.com/spoolhq/spool/pkg/logger"
	"github.com/spoolhq/spool/pkg/runtime"
	"github.com/spoolhq/spool/pkg/utils"
)

const separatorWidth = 60

type invokeCommander struct {
	prompt      string
	runtimeARN  string
	endpoint    string
	bearerToken string
	sessionID   string
	resume      bool
	render      bool
	noSave      bool
	timeout     uint
	configDir   string
	debug       bool

	historyBackend string
	sqlitePath     string
	postgresDSN    string

	eventsEnabled bool
	eventBrokers  string
	eventTopic    string

	cli    *slog.Logger
	logger *zap.Logger
}

const invokeLongDesc string = `Invoke an agent runtime with a prompt and stream the response.

The response stream renders live: tool calls, reasoning, and status
updates appear as they happen, and the assistant's answer is assembled
into a transcript. Completed invocations are saved to local history.

The prompt comes from the first argument, the --prompt flag, or stdin
when input is piped.

The runtime ARN resolves in order: the --runtime-arn flag, the
runtime.arn config key, then control-plane discovery via the AWS CLI
(the first runtime found wins).

Sessions group related invocations. A fresh session ID is generated per
run unless --session provides one or --resume continues the last session.

Examples:
  spool invoke "what were last month's top queries?"
  spool invoke --resume "and the month before that?"
  echo "summarize this" | spool invoke
  spool invoke --render "write a markdown report"`

const invokeShortDesc string = "Invoke an agent runtime and stream the response"

func NewInvokeCmd() *cobra.Command {
	cmder := &invokeCommander{}

	cmd := &cobra.Command{
		Use:   "invoke [prompt]",
		Short: invokeShortDesc,
		Long:  invokeLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cmder.configDir = configDir

			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// Flags win over config file values.
			if !cmd.Flags().Changed("endpoint") {
				cmder.endpoint = cfg.Runtime.Endpoint
			}
			if !cmd.Flags().Changed("runtime-arn") {
				cmder.runtimeARN = cfg.Runtime.ARN
			}
			if !cmd.Flags().Changed("bearer-token") {
				cmder.bearerToken = cfg.Runtime.BearerToken
			}
			if !cmd.Flags().Changed("timeout") {
				cmder.timeout = cfg.Client.TimeoutSeconds
			}

			cmder.historyBackend = cfg.History.Backend
			cmder.sqlitePath = cfg.History.SQLitePath
			cmder.postgresDSN = cfg.History.PostgresDSN
			cmder.eventsEnabled = cfg.Events.Enabled
			cmder.eventBrokers = cfg.Events.Brokers
			cmder.eventTopic = cfg.Events.Topic

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			if len(args) == 1 {
				cmder.prompt = args[0]
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Flags, config.FlagRuntimeARN, &cmder.runtimeARN)
	config.AddStringFlag(cmd, config.Flags, config.FlagBearerToken, &cmder.bearerToken)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	cmd.Flags().StringVarP(&cmder.prompt, "prompt", "p", "", "Prompt to send (overridden by a positional argument)")
	cmd.Flags().StringVar(&cmder.sessionID, "session", "", "Session ID to invoke under (minimum 33 characters)")
	cmd.Flags().BoolVar(&cmder.resume, "resume", false, "Continue the most recent session")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Re-render the final transcript as markdown")
	cmd.Flags().BoolVar(&cmder.noSave, "no-save", false, "Skip saving the invocation to history")

	return cmd
}

func (c *invokeCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ddm := dotdir.NewManager()

	logFile := c.openLogFile(ddm)
	if logFile != nil {
		defer logFile.Close()
		c.cli = logger.NewCLILogger(c.debug, nil, logFile)
	} else {
		c.cli = logger.NewCLILogger(c.debug, nil, nil)
	}

	prompt, err := c.resolvePrompt()
	if err != nil {
		return err
	}

	arn, err := c.resolveARN(ctx)
	if err != nil {
		return err
	}

	sessionID, resumed, err := c.resolveSession(ddm)
	if err != nil {
		return err
	}

	fmt.Println()
	if resumed {
		fmt.Printf("  %s Resuming session %s\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render(utils.Truncate(sessionID, 24)),
		)
	}
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Runtime:"),
		cliui.NameStyle.Render(arn),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Session:"),
		cliui.DimStyle.Render(sessionID),
	)

	client := runtime.NewClient(runtime.ClientConfig{
		Endpoint:    c.endpoint,
		BearerToken: c.bearerToken,
		Timeout:     time.Duration(c.timeout) * time.Second,
		Logger:      c.logger,
	})

	startedAt := time.Now()

	resp, err := client.Invoke(ctx, runtime.InvokeRequest{
		RuntimeARN: arn,
		SessionID:  sessionID,
		Prompt:     prompt,
	})
	if err != nil {
		return fmt.Errorf("invoking agent: %w", err)
	}
	defer resp.Body.Close()

	streaming := strings.Contains(resp.ContentType, agentstream.SSEContentType)
	c.cli.Debug("response stream open",
		"content_type", resp.ContentType,
		"streaming", streaming,
		"session_id", sessionID,
	)

	fmt.Println(strings.Repeat("=", separatorWidth))

	drainer := agentstream.NewDrainer(os.Stdout, c.logger)
	transcript, err := drainer.Drain(resp.ContentType, resp.Body)
	if err != nil {
		fmt.Println()
		return fmt.Errorf("draining stream: %w", err)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", separatorWidth))
	fmt.Println("[stream] complete")

	completedAt := time.Now()

	if c.render && transcript != "" {
		rendered, err := cliui.RenderMarkdown(transcript)
		if err == nil {
			fmt.Print(rendered)
		}
	}

	if err := ddm.SaveSession(&dotdir.SessionState{
		RuntimeARN: arn,
		SessionID:  sessionID,
		UpdatedAt:  time.Now().UTC(),
	}, c.configDir); err != nil {
		c.cli.Warn("could not save session state", "error", err)
	}

	if c.noSave {
		return nil
	}

	return c.persist(ctx, &history.Invocation{
		ID:         uuid.NewString(),
		RuntimeARN: arn,
		SessionID:  sessionID,
		Prompt:     prompt,
		Transcript: transcript,
		CreatedAt:  completedAt.UTC(),
	}, startedAt, completedAt, streaming)
}

// openLogFile opens the append-only invocation log in the dotdir. A nil
// return means logging stays console-only for this run.
func (c *invokeCommander) openLogFile(ddm *dotdir.Manager) *os.File {
	target, err := ddm.Target(c.configDir)
	if err != nil {
		return nil
	}

	logFile, err := os.OpenFile(filepath.Join(target, "invoke.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil
	}

	return logFile
}

// resolvePrompt finds the prompt: positional arg or flag first, then piped
// stdin when the input is not a terminal.
func (c *invokeCommander) resolvePrompt() (string, error) {
	if c.prompt != "" {
		return c.prompt, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no prompt provided; pass one as an argument, with --prompt, or on stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading prompt from stdin: %w", err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("stdin was empty; no prompt to send")
	}

	return prompt, nil
}

// resolveARN picks the runtime ARN: flag or config first, then control
// plane discovery.
func (c *invokeCommander) resolveARN(ctx context.Context) (string, error) {
	if c.runtimeARN != "" {
		return c.runtimeARN, nil
	}

	var arn string
	err := cliui.Step(os.Stderr, "Discovering agent runtime", func() error {
		var err error
		arn, err = runtime.DiscoverRuntimeARN(ctx, c.logger)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("no runtime ARN configured and discovery failed: %w", err)
	}

	return arn, nil
}

// resolveSession picks the session ID: explicit flag, then the saved
// session when --resume is set, then a fresh ID.
func (c *invokeCommander) resolveSession(ddm *dotdir.Manager) (string, bool, error) {
	if c.sessionID != "" {
		if len(c.sessionID) < 33 {
			return "", false, fmt.Errorf("session ID must be at least 33 characters, got %d", len(c.sessionID))
		}
		return c.sessionID, false, nil
	}

	if c.resume {
		state, err := ddm.LoadSessionState(c.configDir)
		if err != nil {
			return "", false, fmt.Errorf("loading session state: %w", err)
		}
		if state != nil && state.SessionID != "" {
			return state.SessionID, true, nil
		}
		// Nothing to resume; fall through to a fresh session.
	}

	return runtime.NewSessionID(), false, nil
}

// persist saves the invocation to history through the worker pool and
// publishes a completion event when events are enabled.
func (c *invokeCommander) persist(ctx context.Context, inv *history.Invocation, startedAt, completedAt time.Time, streaming bool) error {
	store, err := c.openStore(ctx)
	if err != nil {
		c.cli.Warn("history disabled for this run", "error", err)
		return nil
	}
	defer store.Close()

	publisher, err := c.openPublisher()
	if err != nil {
		c.cli.Warn("event publishing disabled for this run", "error", err)
		publisher = nop.NewPublisher()
	}
	defer publisher.Close()

	pool, err := worker.NewPool(&worker.Config{
		Store:     store,
		Publisher: publisher,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}

	pool.Enqueue(worker.Job{
		Invocation:  inv,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Streaming:   streaming,
	})

	// Close drains the queue, so the record is durable before exit.
	pool.Close()

	return nil
}

func (c *invokeCommander) openStore(ctx context.Context) (history.Store, error) {
	switch c.historyBackend {
	case "sqlite", "":
		path := c.sqlitePath
		if path == "" {
			ddm := dotdir.NewManager()
			target, err := ddm.Target(c.configDir)
			if err != nil {
				return nil, fmt.Errorf("resolving the history database path: %w", err)
			}
			path = filepath.Join(target, "history.db")
		}
		return historysqlite.NewStore(path)
	case "postgres":
		if c.postgresDSN == "" {
			return nil, fmt.Errorf("history.postgres_dsn is not set")
		}
		return historypostgres.NewStore(ctx, c.postgresDSN)
	case "memory":
		return historyinmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", c.historyBackend)
	}
}

func (c *invokeCommander) openPublisher() (eventstream.Publisher, error) {
	if !c.eventsEnabled {
		return nop.NewPublisher(), nil
	}

	brokers := strings.Split(c.eventBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	return eventkafka.NewPublisher(eventkafka.Config{
		Brokers: brokers,
		Topic:   c.eventTopic,
		Logger:  c.logger,
	})
}
