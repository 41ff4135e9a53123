package semantic

import (
	"strconv"
	"strings"

	"github.com/poiesic/noema/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	chunkSize    = 800
	chunkOverlap = 0
)

// SplitChunks splits an item's content into heading+content chunks using a
// markdown-aware splitter. The chunk heading is the first markdown heading
// inside the chunk, falling back to the item title. Chunk IDs are
// deterministic per (item, index) so re-splitting replaces cleanly.
func SplitChunks(item *core.KnowledgeItem) []*core.Chunk {
	splitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	parts, err := splitter.SplitText(item.Content)
	if err != nil || len(parts) == 0 {
		// Splitter failures degrade to a single whole-content chunk
		parts = []string{item.Content}
	}

	chunks := make([]*core.Chunk, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, &core.Chunk{
			Id:      chunkID(item.Id, i),
			ItemId:  item.Id,
			Index:   i,
			Heading: chunkHeading(part, item.Title),
			Content: part,
		})
	}
	return chunks
}

func chunkID(itemID core.ID, index int) core.ID {
	return core.IDFromContent(strconv.FormatUint(uint64(itemID), 10) + "#" + strconv.Itoa(index))
}

// chunkHeading extracts the first markdown heading line of the chunk.
func chunkHeading(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return fallback
}
