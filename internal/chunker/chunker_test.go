package chunker

import (
	"strings"
	"testing"
)

func TestSplit_SingleChunkFastPath(t *testing.T) {
	text := "A short filing notice."
	chunks := Split(text, Options{MaxChunkSize: 100, MinChunkSize: 5, OverlapSize: 10, RespectSentenceBoundaries: true})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Content != text {
		t.Errorf("content mismatch: %q", c.Content)
	}
	if c.StartIndex != 0 || c.EndIndex != len(text) {
		t.Errorf("bad range [%d,%d)", c.StartIndex, c.EndIndex)
	}
	if c.TotalChunks != 1 || c.ChunkIndex != 0 {
		t.Errorf("bad ordering metadata: index %d of %d", c.ChunkIndex, c.TotalChunks)
	}
	if c.PreviousChunkId != "" || c.NextChunkId != "" {
		t.Error("single chunk should not be linked to anything")
	}
}

func TestSplit_EmptyText(t *testing.T) {
	if chunks := Split("", DefaultOptions()); chunks != nil {
		t.Fatalf("expected nil for empty text, got %d chunks", len(chunks))
	}
}

func TestSplit_SizeBoundAndCoverage(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		sb.WriteString("The witness confirmed the account during the hearing. ")
	}
	text := sb.String()
	opts := Options{MaxChunkSize: 400, MinChunkSize: 50, OverlapSize: 80, RespectSentenceBoundaries: true}

	chunks := Split(text, opts)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if len(c.Content) > opts.MaxChunkSize {
			t.Errorf("chunk %d exceeds max size: %d", i, len(c.Content))
		}
		if c.Content != text[c.StartIndex:c.EndIndex] {
			t.Errorf("chunk %d content does not match its range", i)
		}
		if c.CharCount != len(c.Content) {
			t.Errorf("chunk %d CharCount %d != %d", i, c.CharCount, len(c.Content))
		}
	}

	//ranges must cover the whole input with no gaps
	if chunks[0].StartIndex != 0 {
		t.Errorf("first chunk starts at %d", chunks[0].StartIndex)
	}
	if last := chunks[len(chunks)-1]; last.EndIndex != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.EndIndex, len(text))
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartIndex > chunks[i-1].EndIndex {
			t.Errorf("gap between chunk %d and %d: %d > %d",
				i-1, i, chunks[i].StartIndex, chunks[i-1].EndIndex)
		}
		if chunks[i].StartIndex <= chunks[i-1].StartIndex {
			t.Errorf("chunk %d does not advance", i)
		}
	}
}

func TestSplit_OverlapCarriesSharedText(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 80; i++ {
		sb.WriteString("Plaintiff moved for summary judgment on all counts. ")
	}
	text := sb.String()
	opts := Options{MaxChunkSize: 300, MinChunkSize: 40, OverlapSize: 60, RespectSentenceBoundaries: true}

	chunks := Split(text, opts)
	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].EndIndex - chunks[i].StartIndex
		if overlap < 0 {
			t.Fatalf("chunk %d starts after its predecessor ends", i)
		}
		if overlap > opts.OverlapSize {
			t.Errorf("chunk %d overlap %d exceeds configured %d", i, overlap, opts.OverlapSize)
		}
	}
}

func TestSplit_SentenceBoundaries(t *testing.T) {
	//every sentence fits well inside a chunk, so with boundary respect on
	//each cut should land right after a terminator
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString("The court granted the motion to compel discovery. ")
	}
	text := sb.String()
	opts := Options{MaxChunkSize: 350, MinChunkSize: 40, OverlapSize: 0, RespectSentenceBoundaries: true}

	chunks := Split(text, opts)
	for i, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c.Content, " \n\t")
		if !strings.HasSuffix(trimmed, ".") {
			t.Errorf("chunk %d does not end on a sentence: %q", i, trimmed[len(trimmed)-20:])
		}
	}
}

func TestSplit_Links(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("Counsel filed an amended complaint with exhibits. ")
	}
	chunks := Split(sb.String(), Options{MaxChunkSize: 200, MinChunkSize: 30, OverlapSize: 20, RespectSentenceBoundaries: true})
	if len(chunks) < 3 {
		t.Fatalf("want at least 3 chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.TotalChunks != len(chunks) {
			t.Errorf("chunk %d TotalChunks %d, want %d", i, c.TotalChunks, len(chunks))
		}
		if i > 0 && c.PreviousChunkId != chunks[i-1].Id {
			t.Errorf("chunk %d previous link broken", i)
		}
		if i < len(chunks)-1 && c.NextChunkId != chunks[i+1].Id {
			t.Errorf("chunk %d next link broken", i)
		}
	}
	if chunks[0].PreviousChunkId != "" {
		t.Error("first chunk should have no previous link")
	}
	if chunks[len(chunks)-1].NextChunkId != "" {
		t.Error("last chunk should have no next link")
	}
}

func TestSplit_PathologicalOverlapStillTerminates(t *testing.T) {
	text := strings.Repeat("x", 5000)
	//overlap nearly as large as the chunk; sanitized() shrinks it, and the
	//regression guard keeps the cursor moving forward
	chunks := Split(text, Options{MaxChunkSize: 100, MinChunkSize: 10, OverlapSize: 99})
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartIndex <= chunks[i-1].StartIndex {
			t.Fatalf("cursor regressed at chunk %d", i)
		}
	}
	if chunks[len(chunks)-1].EndIndex != len(text) {
		t.Error("text not fully covered")
	}
}

func TestSplitPages(t *testing.T) {
	pages := []Page{
		{Number: 1, Content: "First page of the agreement. It has two sentences."},
		{Number: 2, Content: "   "},
		{Number: 3, Content: "Third page with the signature block."},
	}
	chunks := SplitPages(pages, Options{MaxChunkSize: 500, MinChunkSize: 10, OverlapSize: 0, RespectSentenceBoundaries: true})

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks (blank page skipped), got %d", len(chunks))
	}
	if chunks[0].PageNumber != 1 || chunks[1].PageNumber != 3 {
		t.Errorf("page numbers lost: %d, %d", chunks[0].PageNumber, chunks[1].PageNumber)
	}
	//links run across pages
	if chunks[0].NextChunkId != chunks[1].Id || chunks[1].PreviousChunkId != chunks[0].Id {
		t.Error("cross-page links broken")
	}
	if chunks[0].TotalChunks != 2 || chunks[1].TotalChunks != 2 {
		t.Error("TotalChunks not recomputed across pages")
	}
}

func TestOptions_Sanitized(t *testing.T) {
	opts := Options{MaxChunkSize: -5, MinChunkSize: -1, OverlapSize: -3}.sanitized()
	d := DefaultOptions()
	if opts.MaxChunkSize != d.MaxChunkSize {
		t.Errorf("MaxChunkSize not defaulted: %d", opts.MaxChunkSize)
	}
	if opts.OverlapSize != 0 {
		t.Errorf("negative overlap should clamp to 0, got %d", opts.OverlapSize)
	}
}
