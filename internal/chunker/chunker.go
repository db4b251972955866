package chunker

import (
	"strings"
	"unicode"

	"github.com/avemuri/CaseDocAPI/internal/config"
	"github.com/avemuri/CaseDocAPI/internal/domain/docModel"
	"github.com/google/uuid"
)

type Options struct {
	MaxChunkSize              int
	MinChunkSize              int
	OverlapSize               int
	RespectSentenceBoundaries bool
}

func DefaultOptions() Options {
	return Options{
		MaxChunkSize:              config.MaxChunkSize,
		MinChunkSize:              config.MinChunkSize,
		OverlapSize:               config.ChunkOverlapSize,
		RespectSentenceBoundaries: true,
	}
}

// Map exposes the options as a canonical map for cache key hashing.
func (o Options) Map() map[string]any {
	return map[string]any{
		"max":        o.MaxChunkSize,
		"min":        o.MinChunkSize,
		"overlap":    o.OverlapSize,
		"boundaries": o.RespectSentenceBoundaries,
	}
}

func (o Options) sanitized() Options {
	d := DefaultOptions()
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = d.MaxChunkSize
	}
	if o.MinChunkSize <= 0 || o.MinChunkSize > o.MaxChunkSize {
		o.MinChunkSize = min(d.MinChunkSize, o.MaxChunkSize)
	}
	if o.OverlapSize < 0 {
		o.OverlapSize = 0
	}
	if o.OverlapSize >= o.MaxChunkSize {
		o.OverlapSize = o.MaxChunkSize / 4
	}
	return o
}

// Split cuts text into bounded, overlapping, optionally sentence-respecting
// chunks. The produced ranges cover every offset of the input and are
// ordered by ChunkIndex; no chunk exceeds MaxChunkSize.
func Split(text string, opts Options) []docModel.Chunk {
	opts = opts.sanitized()

	if len(text) == 0 {
		return nil
	}
	if len(text) <= opts.MaxChunkSize {
		return link([]docModel.Chunk{newChunk(text, 0, len(text), 0)})
	}

	var chunks []docModel.Chunk
	cursor := 0
	prevEnd := 0

	for cursor < len(text) {
		end := cursor + opts.MaxChunkSize
		if end >= len(text) {
			end = len(text)
		} else if opts.RespectSentenceBoundaries {
			if adjusted := boundaryBefore(text, cursor, end); adjusted-cursor >= opts.MinChunkSize {
				end = adjusted
			}
		}

		chunks = append(chunks, newChunk(text[cursor:end], cursor, end, 0))

		if end >= len(text) {
			break
		}

		next := end - opts.OverlapSize
		//never step back past the previous chunk's end, or a pathological
		//overlap could produce zero or negative sized chunks
		if next <= prevEnd {
			next = end
		}
		prevEnd = end
		cursor = next
	}

	return link(chunks)
}

type Page struct {
	Number  int
	Content string
}

// SplitPages runs the same algorithm independently within each page so every
// chunk keeps its page number. Offsets are relative to the page's own text,
// which is what a page citation needs.
func SplitPages(pages []Page, opts Options) []docModel.Chunk {
	var all []docModel.Chunk
	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			continue
		}
		for _, c := range Split(page.Content, opts) {
			c.PageNumber = page.Number
			all = append(all, c)
		}
	}
	return link(all)
}

// boundaryBefore searches backward from end (at most BoundarySearchSpan
// characters, never past start) for the best cut point: a sentence
// terminator followed by whitespace, else a newline, else a space. Returns
// end unchanged when nothing suitable is found.
func boundaryBefore(text string, start, end int) int {
	floor := end - config.BoundarySearchSpan
	if floor < start {
		floor = start
	}

	newline, space := -1, -1
	for i := end - 1; i >= floor; i-- {
		ch := text[i]
		if isSentenceEnd(ch) && i+1 < len(text) && isWhitespace(text[i+1]) {
			return i + 1
		}
		if ch == '\n' && newline == -1 {
			newline = i + 1
		}
		if ch == ' ' && space == -1 {
			space = i + 1
		}
	}
	if newline != -1 {
		return newline
	}
	if space != -1 {
		return space
	}
	return end
}

func isSentenceEnd(ch byte) bool {
	return ch == '.' || ch == '!' || ch == '?'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\n' || ch == '\r' || ch == '\t'
}

func newChunk(content string, start, end, page int) docModel.Chunk {
	return docModel.Chunk{
		Id:         uuid.New().String(),
		Content:    content,
		StartIndex: start,
		EndIndex:   end,
		PageNumber: page,
		WordCount:  countWords(content),
		CharCount:  len(content),
	}
}

// link back-fills ordering metadata in a second pass once the final chunk
// count is known.
func link(chunks []docModel.Chunk) []docModel.Chunk {
	total := len(chunks)
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = total
		if i > 0 {
			chunks[i].PreviousChunkId = chunks[i-1].Id
		}
		if i < total-1 {
			chunks[i].NextChunkId = chunks[i+1].Id
		}
	}
	return chunks
}

func countWords(s string) int {
	return len(strings.FieldsFunc(s, unicode.IsSpace))
}
