// Package semantic provides an embedding-based similarity check against
// known scam utterances. Its output is advisory only: it annotates
// sessions and reports but never drives detection, state, or exit, so the
// engine stays deterministic with or without an embedding server.
package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/sushant-bot/HONEY-POT/pkg/httputil"
)

// Seed is one known scam utterance with its labeled category.
type Seed struct {
	Text     string
	Category string
	Severity float32
}

// Result is the advisory annotation for one message.
type Result struct {
	Score       float32 `json:"score"`
	Category    string  `json:"category"`
	MatchedText string  `json:"matchedText"`
	IsMatch     bool    `json:"isMatch"`
}

// Detector holds the vector store of seed utterances.
type Detector struct {
	db         *chromem.DB
	collection *chromem.Collection
	threshold  float32
	mu         sync.RWMutex
	ready      bool
}

const defaultThreshold = 0.65

// newOllamaEmbeddingFunc builds an embedding function against Ollama's
// /api/embeddings endpoint.
func newOllamaEmbeddingFunc(model, baseURL string) chromem.EmbeddingFunc {
	client := httputil.Client(httputil.TierFast)

	return func(ctx context.Context, text string) ([]float32, error) {
		reqBody := map[string]string{
			"model":  model,
			"prompt": text,
		}
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal embedding request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", strings.TrimRight(baseURL, "/")+"/api/embeddings", bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("embedding request failed: %w", err)
		}
		defer httputil.DrainAndClose(resp.Body)

		if resp.StatusCode != 200 {
			body, _ := httputil.ReadErrorBody(resp.Body)
			return nil, fmt.Errorf("embedding server error %d: %s", resp.StatusCode, string(body))
		}

		var result struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode embedding response: %w", err)
		}
		return result.Embedding, nil
	}
}

// NewDetector creates a detector backed by Ollama embeddings.
func NewDetector(ollamaURL string) (*Detector, error) {
	db := chromem.NewDB()

	embeddingFunc := newOllamaEmbeddingFunc("embeddinggemma", ollamaURL)
	collection, err := db.CreateCollection("scam_utterances", nil, embeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Detector{
		db:         db,
		collection: collection,
		threshold:  defaultThreshold,
	}, nil
}

// LoadSeeds embeds the seed utterances into the collection. Must be
// called before Detect; embedding happens one document at a time to keep
// the load on the embedding server flat.
func (d *Detector) LoadSeeds(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	seeds := seedUtterances()
	docs := make([]chromem.Document, len(seeds))
	for i, s := range seeds {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("seed_%d", i),
			Content: s.Text,
			Metadata: map[string]string{
				"category": s.Category,
				"severity": fmt.Sprintf("%.2f", s.Severity),
			},
		}
	}

	if err := d.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("add seeds: %w", err)
	}

	d.ready = true
	return nil
}

// Detect returns the closest seed match for the text. Callers treat the
// result as an annotation; errors here must never fail a turn.
func (d *Detector) Detect(ctx context.Context, text string) (*Result, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.ready {
		return nil, fmt.Errorf("detector not initialized, call LoadSeeds first")
	}

	results, err := d.collection.Query(ctx, strings.ToLower(text), 1, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	if len(results) == 0 {
		return &Result{}, nil
	}

	best := results[0]
	return &Result{
		Score:       best.Similarity,
		Category:    best.Metadata["category"],
		MatchedText: best.Content,
		IsMatch:     best.Similarity >= d.threshold,
	}, nil
}

// SetThreshold overrides the match threshold.
func (d *Detector) SetThreshold(t float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.threshold = t
}

// IsReady reports whether seeds have been loaded.
func (d *Detector) IsReady() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ready
}

// SeedCount returns the number of seed utterances.
func (d *Detector) SeedCount() int {
	return len(seedUtterances())
}

var (
	cachedSeeds     []Seed
	cachedSeedsOnce sync.Once
)

// seedUtterances returns the curated scam utterance set, phrased the way
// scammers actually open and escalate.
func seedUtterances() []Seed {
	cachedSeedsOnce.Do(func() {
		cachedSeeds = []Seed{
			// UPI fraud
			{"your upi account will be blocked today, verify immediately", "upi_fraud", 0.95},
			{"send 10 rupees to this upi id to verify your account", "upi_fraud", 1.0},
			{"transfer the amount on gpay to keep your account active", "upi_fraud", 0.95},
			{"accept the collect request on phonepe to receive your refund", "upi_fraud", 0.95},
			{"scan this qr code to get your cashback", "upi_fraud", 0.9},

			// Account suspension
			{"your bank account has been suspended due to suspicious activity", "account_suspension", 0.95},
			{"we have frozen your account, call this number immediately", "account_suspension", 0.95},
			{"your account will be deactivated within 24 hours", "account_suspension", 0.9},
			{"your sim card will be blocked unless you verify now", "account_suspension", 0.9},

			// KYC update
			{"your kyc has expired, update it now to avoid account closure", "kyc_update", 0.95},
			{"share your aadhar and pan details to complete kyc verification", "kyc_update", 1.0},
			{"click this link to update your kyc before midnight", "kyc_update", 0.95},
			{"send the otp you received to complete verification", "kyc_update", 1.0},

			// Lottery
			{"congratulations you have won 25 lakh in the lucky draw", "lottery_scam", 0.95},
			{"you are the winner of our anniversary prize, pay the processing fee", "lottery_scam", 0.95},
			{"claim your kbc lottery prize by paying the tax amount", "lottery_scam", 0.95},

			// Tech support
			{"your computer has a virus, install anydesk so we can fix it", "tech_support", 1.0},
			{"download teamviewer and share the code with me", "tech_support", 1.0},
			{"we detected hacking on your device, give us remote access", "tech_support", 0.95},

			// Loan fraud
			{"you have a pre-approved instant loan of 5 lakh, pay the file charges", "loan_fraud", 0.95},
			{"get a loan in 5 minutes, just pay the small processing fee first", "loan_fraud", 0.9},
			{"your emi is overdue, pay now or face legal action", "loan_fraud", 0.9},

			// Authority impersonation
			{"this is the cyber cell, a case has been registered against you", "authority_impersonation", 0.95},
			{"i am calling from rbi, your account is under investigation", "authority_impersonation", 0.95},
			{"a parcel in your name was seized by customs, pay the fine", "authority_impersonation", 0.95},
			{"police will arrest you today unless you settle this online", "authority_impersonation", 0.95},
		}
	})
	return cachedSeeds
}
