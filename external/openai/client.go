// Package openai implements the LLM-backed intent parser on top of the
// chat completions API. Every failure is returned as an error so the
// parser chain can fall back to the heuristic parser.
package openai

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/betfaro/betstats/internal/platform/logging"
	"github.com/betfaro/betstats/internal/usecase"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 8 * time.Second

	completionsPath  = "/v1/chat/completions"
	maxContentLength = 4096
)

const systemPrompt = `You extract structured betting-analysis intents from football queries in English or Portuguese.
Reply with a single JSON object, no prose and no code fences:
{"intent":"team"|"match","team_a":string,"team_b":string|null,"n":int,"home_away":"all"|"home"|"away","metrics":[string]}
Rules: "match" only when two teams are compared. n is the requested number of recent games, default 10.
Valid metrics: over_0_5, over_1_5, over_2_5, over_3_5, btts, win_rate, draw_rate, loss_rate, clean_sheet_rate, failed_to_score_rate, avg_goals_for, avg_goals_against, avg_total_goals.
When no metric is named use ["over_2_5","btts","win_rate"].`

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  *logging.Logger
}

// Client parses queries with a chat completion call. It implements
// usecase.IntentParser.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// intentPayload mirrors the JSON contract in the system prompt. team_b may
// be null for single-team intents.
type intentPayload struct {
	Intent   string   `json:"intent"`
	TeamA    string   `json:"team_a"`
	TeamB    *string  `json:"team_b"`
	N        int      `json:"n"`
	HomeAway string   `json:"home_away"`
	Metrics  []string `json:"metrics"`
}

func (c *Client) Parse(ctx context.Context, text string) (usecase.Intent, error) {
	if c.apiKey == "" {
		return usecase.Intent{}, crerr.New("openai api key is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return usecase.Intent{}, crerr.New("query text is empty")
	}
	if err := ctx.Err(); err != nil {
		return usecase.Intent{}, err
	}

	body, err := sonic.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
		MaxTokens:   200,
	})
	if err != nil {
		return usecase.Intent{}, crerr.Wrap(err, "marshal chat request")
	}

	content, err := c.complete(ctx, body)
	if err != nil {
		return usecase.Intent{}, err
	}

	intent, err := decodeIntent(content)
	if err != nil {
		c.logger.WarnContext(ctx, "llm intent response rejected",
			"error", err, "content", truncateForLog(content, 512))
		return usecase.Intent{}, err
	}
	return intent, nil
}

func (c *Client) complete(ctx context.Context, body []byte) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + completionsPath)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBody(body)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	if err := c.httpClient.DoTimeout(req, resp, timeout); err != nil {
		return "", crerr.Wrap(err, "call chat completions")
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return "", crerr.Newf("chat completions status=%d body=%s", status, truncateForLog(string(resp.Body()), 240))
	}

	var parsed chatResponse
	if err := sonic.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", crerr.Wrap(err, "decode chat completions response")
	}
	if parsed.Error != nil {
		return "", crerr.Newf("chat completions error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", crerr.New("chat completions returned no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", crerr.New("chat completions returned empty content")
	}
	if len(content) > maxContentLength {
		return "", crerr.Newf("chat completions content too large: %d bytes", len(content))
	}
	return content, nil
}

func decodeIntent(content string) (usecase.Intent, error) {
	content = stripCodeFences(content)

	var payload intentPayload
	if err := sonic.UnmarshalString(content, &payload); err != nil {
		return usecase.Intent{}, crerr.Wrap(err, "decode intent payload")
	}

	intent := usecase.Intent{
		TeamA:      strings.TrimSpace(payload.TeamA),
		SampleSize: payload.N,
		Metrics:    payload.Metrics,
	}
	if payload.TeamB != nil {
		intent.TeamB = strings.TrimSpace(*payload.TeamB)
	}

	switch payload.Intent {
	case "team":
		intent.Type = usecase.IntentTeam
	case "match":
		intent.Type = usecase.IntentMatch
	default:
		return usecase.Intent{}, crerr.Newf("unknown intent type %q", payload.Intent)
	}
	if intent.TeamA == "" {
		return usecase.Intent{}, crerr.New("intent payload has no team_a")
	}
	if intent.Type == usecase.IntentMatch && intent.TeamB == "" {
		return usecase.Intent{}, crerr.New("match intent payload has no team_b")
	}

	switch usecase.VenueFilter(payload.HomeAway) {
	case usecase.VenueHome:
		intent.Venue = usecase.VenueHome
	case usecase.VenueAway:
		intent.Venue = usecase.VenueAway
	default:
		intent.Venue = usecase.VenueAll
	}

	if intent.SampleSize <= 0 {
		intent.SampleSize = usecase.DefaultSampleSize
	}
	if len(intent.Metrics) == 0 {
		intent.Metrics = []string{"over_2_5", "btts", "win_rate"}
	}
	return intent, nil
}

// stripCodeFences tolerates models that wrap the JSON in markdown fences
// despite the prompt.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		if buf.Len() > 0 {
			_ = buf.WriteByte('\n')
		}
		_, _ = buf.WriteString(line)
	}
	return strings.TrimSpace(buf.String())
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

var _ usecase.IntentParser = (*Client)(nil)
