package faq

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

type Chunk struct {
	Heading   string
	Text      string
	TokenSize int
	Index     int
}

type ChunkerConfig struct {
	MaxTokens int
}

// DefaultChunkerConfig keeps a chunk small enough that several of them
// plus the question fit comfortably in a specialist prompt.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{MaxTokens: 400}
}

// ChunkMarkdown splits an FAQ document into chunks, one per heading
// section. Sections that exceed the token budget are sliced on
// paragraph boundaries, carrying the heading into every slice.
func ChunkMarkdown(text string, cfg ChunkerConfig) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sections := splitSections(text)

	var chunks []Chunk
	index := 0
	for _, sec := range sections {
		body := strings.TrimSpace(sec.body)
		if body == "" && sec.heading == "" {
			continue
		}

		full := joinHeading(sec.heading, body)
		tokens := countTokens(full)
		if tokens <= cfg.MaxTokens {
			chunks = append(chunks, Chunk{
				Heading:   sec.heading,
				Text:      full,
				TokenSize: tokens,
				Index:     index,
			})
			index++
			continue
		}

		for _, part := range splitByParagraphs(sec.heading, body, cfg.MaxTokens) {
			part.Index = index
			chunks = append(chunks, part)
			index++
		}
	}

	return chunks
}

type section struct {
	heading string
	body    string
}

func splitSections(text string) []section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var sections []section
	current := section{}
	var body strings.Builder

	flush := func() {
		current.body = body.String()
		if current.heading != "" || strings.TrimSpace(current.body) != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			flush()
			current = section{heading: strings.TrimSpace(strings.TrimLeft(trimmed, "#"))}
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}

func splitByParagraphs(heading, body string, maxTokens int) []Chunk {
	paragraphs := strings.Split(body, "\n\n")

	var chunks []Chunk
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text == "" {
			return
		}
		full := joinHeading(heading, text)
		chunks = append(chunks, Chunk{
			Heading:   heading,
			Text:      full,
			TokenSize: countTokens(full),
		})
		buf.Reset()
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		candidate := strings.TrimSpace(buf.String() + "\n\n" + para)
		if countTokens(joinHeading(heading, candidate)) > maxTokens && buf.Len() > 0 {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	flush()

	return chunks
}

func joinHeading(heading, body string) string {
	if heading == "" {
		return body
	}
	if body == "" {
		return heading
	}
	return heading + "\n" + body
}

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

func countTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(getTokenizer().Encode(text, nil, nil))
}
