package faq

import (
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/LucaLucareli/assessor/internal/ledger"
	"github.com/LucaLucareli/assessor/pkg/log"
)

const defaultTopK = 3

// Retriever answers FetchContext by ranking chunks of a markdown FAQ
// document against the question. The document is read lazily on first
// use so the binary starts even when no FAQ was installed yet.
type Retriever struct {
	path string
	cfg  ChunkerConfig
	topK int

	once   sync.Once
	chunks []Chunk
}

func NewRetriever(path string) *Retriever {
	return &Retriever{
		path: path,
		cfg:  DefaultChunkerConfig(),
		topK: defaultTopK,
	}
}

// FetchContext returns the most relevant FAQ chunks joined by blank
// lines, or "" when the document is missing or nothing matches.
func (r *Retriever) FetchContext(ctx context.Context, question string) (string, error) {
	r.once.Do(func() {
		data, err := os.ReadFile(r.path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.FromCtx(ctx).Warn().Err(err).Str("path", r.path).Msg("failed to read FAQ document")
			}
			return
		}
		r.chunks = ChunkMarkdown(string(data), r.cfg)
	})

	if len(r.chunks) == 0 {
		return "", nil
	}

	queryTokens := tokenize(question)
	if len(queryTokens) == 0 {
		return "", nil
	}

	type scored struct {
		chunk Chunk
		score int
	}
	var ranked []scored
	for _, c := range r.chunks {
		s := overlapScore(queryTokens, tokenize(c.Text))
		if s > 0 {
			ranked = append(ranked, scored{chunk: c, score: s})
		}
	}
	if len(ranked) == 0 {
		return "", nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if len(ranked) > r.topK {
		ranked = ranked[:r.topK]
	}

	parts := make([]string, 0, len(ranked))
	for _, s := range ranked {
		parts = append(parts, s.chunk.Text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// tokenize lowers everything through the ledger canonicalizer so
// accents and case never affect matching, then keeps words of three
// or more runes.
func tokenize(text string) map[string]struct{} {
	canonical := ledger.Canonicalize(text)
	fields := strings.FieldsFunc(canonical, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		tokens[f] = struct{}{}
	}
	return tokens
}

func overlapScore(query, doc map[string]struct{}) int {
	score := 0
	for t := range query {
		if _, ok := doc[t]; ok {
			score++
		}
	}
	return score
}
