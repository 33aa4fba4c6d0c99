package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/Moshiii/Alpha-Arena-Lite/marketdata"
	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
)

// DefaultModel is used when the config does not name one.
const DefaultModel = "gpt-4.1-mini"

// Options configures provider construction. Seed applies to the random
// provider; the rest to the model-backed one.
type Options struct {
	Seed    int64
	Token   string
	Model   string
	BaseURL string
}

// LLM asks a chat model for one proposal per symbol. A symbol whose
// call or parse fails is skipped for the tick; the remaining symbols
// still get proposals.
type LLM struct {
	model llms.Model
	name  string
}

// NewLLM builds the provider from options. The token is required.
func NewLLM(opts Options) (*LLM, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, fmt.Errorf("llm provider: missing API token")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	oopts := []openai.Option{
		openai.WithToken(opts.Token),
		openai.WithModel(opts.Model),
	}
	if strings.TrimSpace(opts.BaseURL) != "" {
		oopts = append(oopts, openai.WithBaseURL(opts.BaseURL))
	}

	model, err := openai.New(oopts...)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	return &LLM{model: model, name: opts.Model}, nil
}

func (l *LLM) Name() string { return l.name }

// Decide prompts the model once per symbol, in sorted order. It errors
// only when every symbol failed; partial results are returned as-is.
func (l *LLM) Decide(ctx context.Context, contexts map[string]marketdata.SymbolContext, report portfolio.PortfolioReport) ([]Proposal, error) {
	symbols := make([]string, 0, len(contexts))
	for symbol := range contexts {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var (
		proposals []Proposal
		lastErr   error
	)
	for _, symbol := range symbols {
		proposal, err := l.decideOne(ctx, symbol, contexts[symbol], report)
		if err != nil {
			log.Printf("decision: %s skipped: %v", symbol, err)
			lastErr = err
			continue
		}
		proposals = append(proposals, proposal)
	}

	if len(proposals) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all symbols failed: %w", lastErr)
	}
	return proposals, nil
}

func (l *LLM) decideOne(ctx context.Context, symbol string, sc marketdata.SymbolContext, report portfolio.PortfolioReport) (Proposal, error) {
	prompt := buildPrompt(symbol, sc, report)

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	resp, err := l.model.GenerateContent(ctx, messages, llms.WithJSONMode())
	if err != nil {
		return Proposal{}, fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Proposal{}, fmt.Errorf("empty model response")
	}

	proposal, err := parseProposal(resp.Choices[0].Content)
	if err != nil {
		return Proposal{}, err
	}
	if proposal.Coin == "" {
		proposal.Coin = symbol
	}
	return proposal, nil
}

// proposalEnvelope matches the structure the prompt asks for.
type proposalEnvelope struct {
	TradeSignalArgs Proposal `json:"trade_signal_args"`
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// parseProposal decodes a model completion. Models occasionally wrap
// the JSON in prose or fences, so after a direct unmarshal fails the
// first brace-to-brace span is tried.
func parseProposal(raw string) (Proposal, error) {
	clean := strings.TrimSpace(raw)

	if p, err := decodeProposal(clean); err == nil {
		return p, nil
	}

	match := jsonObject.FindString(clean)
	if match == "" {
		return Proposal{}, fmt.Errorf("no JSON object in model response")
	}
	p, err := decodeProposal(match)
	if err != nil {
		return Proposal{}, fmt.Errorf("parse model response: %w", err)
	}
	return p, nil
}

func decodeProposal(s string) (Proposal, error) {
	var envelope proposalEnvelope
	if err := json.Unmarshal([]byte(s), &envelope); err != nil {
		return Proposal{}, err
	}
	if envelope.TradeSignalArgs.Signal != "" {
		return envelope.TradeSignalArgs, nil
	}

	var bare Proposal
	if err := json.Unmarshal([]byte(s), &bare); err != nil {
		return Proposal{}, err
	}
	if bare.Signal == "" {
		return Proposal{}, fmt.Errorf("response has no signal field")
	}
	return bare, nil
}
