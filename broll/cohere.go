package broll

import (
	"context"
	"crypto/tls"
	"log"
	"math"
	"net/http"
	"os"
	"sort"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// KeywordRanker reorders candidate keywords by semantic closeness to the
// transcript using Cohere embeddings. Optional: Rank is a no-op passthrough
// when the ranker is nil or the API call fails.
type KeywordRanker struct {
	client *cohereclient.Client
	model  string
}

// NewKeywordRanker returns a ranker when COHERE_API_KEY is configured, nil
// otherwise.
func NewKeywordRanker() *KeywordRanker {
	key := os.Getenv("COHERE_API_KEY")
	if key == "" {
		return nil
	}
	// Force HTTP/1.1 to avoid HTTP/2 protocol errors against the Cohere API.
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(key),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &KeywordRanker{client: client, model: "embed-english-v3.0"}
}

// Rank sorts keywords by cosine similarity of their embeddings to the
// transcript embedding, most similar first. Failures leave the input order
// untouched.
func (r *KeywordRanker) Rank(ctx context.Context, transcript string, keywords []string) []string {
	if r == nil || len(keywords) < 2 || transcript == "" {
		return keywords
	}

	texts := append([]string{transcript}, keywords...)
	resp, err := r.client.V2.Embed(ctx, &cohere.V2EmbedRequest{
		Texts:          texts,
		Model:          r.model,
		InputType:      cohere.EmbedInputTypeSearchQuery,
		EmbeddingTypes: []cohere.EmbeddingType{cohere.EmbeddingTypeFloat},
	})
	if err != nil {
		log.Printf("broll: cohere embed failed, keeping extraction order: %v", err)
		return keywords
	}
	if resp == nil || resp.Embeddings == nil || resp.Embeddings.Float == nil {
		return keywords
	}
	vecs := resp.Embeddings.Float
	if len(vecs) != len(texts) {
		return keywords
	}

	anchor := vecs[0]
	type scored struct {
		keyword string
		sim     float64
	}
	ranked := make([]scored, len(keywords))
	for i, kw := range keywords {
		ranked[i] = scored{keyword: kw, sim: cosine(anchor, vecs[i+1])}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].sim > ranked[j].sim })

	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.keyword
	}
	return out
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
