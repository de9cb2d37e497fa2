package chunk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/pkg/log"
	"github.com/klauspost/compress/gzip"
)

// IndexFilename is the lightweight index written next to the shard files.
const IndexFilename = "index.json"

// writeChunks writes the shard and index files. Tests replace it to corrupt
// the output before verification.
var writeChunks = writeAll

// Options controls a split run.
type Options struct {
	// Input is the inline artifact to split.
	Input string
	// OutDir is removed and recreated before any file is written.
	OutDir string
	// Precompress writes a gzip sibling (<name>.json.gz) for every file.
	Precompress bool
}

// IndexEntry describes one family without its variants.
type IndexEntry struct {
	FamilyName     string   `json:"familyName"`
	DisplayName    string   `json:"displayName"`
	Formats        []string `json:"formats"`
	HasDefaultFont bool     `json:"hasDefaultFont"`
	FontCount      int      `json:"fontCount"`
	Chunk          string   `json:"chunk"`
}

// Result summarises a split run.
type Result struct {
	// Assigned maps each shard to the familyNames routed to it, in input order.
	Assigned map[string][]string
	// Skipped lists families dropped by the validity gate.
	Skipped []string
	// Missing lists families the verification pass could not find.
	Missing []string
	Index   []IndexEntry
}

// Total returns the number of families written to shards.
func (r *Result) Total() int {
	n := 0
	for _, names := range r.Assigned {
		n += len(names)
	}
	return n
}

// Split reads the inline artifact, routes every usable family to exactly one
// shard, writes the shard and index files, and then verifies them from disk.
func Split(ctx context.Context, opts Options) (*Result, error) {
	src, err := os.ReadFile(opts.Input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errorx.Wrap(errorx.ErrArtifactMissing, "%s", opts.Input)
		}
		return nil, errorx.Wrap(errorx.ErrParse, "read %s: %v", opts.Input, err)
	}

	parsed, err := ParseInline(src)
	if err != nil {
		return nil, err
	}
	if parsed.Base64Encoded {
		return nil, errorx.Wrap(errorx.ErrEmbeddedInput, "%s", opts.Input)
	}

	log.Info("Splitting font data", "input", opts.Input, "families", len(parsed.Records))

	res, shards := partition(parsed.Records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeChunks(opts, shards, res.Index); err != nil {
		return nil, err
	}

	res.Missing, err = verify(opts.OutDir, res)
	if err != nil {
		return res, err
	}
	if len(res.Missing) > 0 {
		for _, name := range res.Missing {
			log.Error("Family missing from its chunk", "family", name, "chunk", ShardOf(name))
		}
		return res, errorx.Wrap(errorx.ErrVerification, "%d families missing", len(res.Missing))
	}

	for _, shard := range Shards {
		log.Info("Chunk written", "chunk", shard, "families", len(res.Assigned[shard]))
	}
	log.Info("Chunks verified", "families", res.Total(), "skipped", len(res.Skipped), "dir", opts.OutDir)
	return res, nil
}

// partition applies the validity gate and routes records to shards.
func partition(records []Record) (*Result, map[string][]json.RawMessage) {
	res := &Result{Assigned: make(map[string][]string, len(Shards))}
	shards := make(map[string][]json.RawMessage, len(Shards))
	for _, s := range Shards {
		res.Assigned[s] = []string{}
		shards[s] = []json.RawMessage{}
	}

	for _, rec := range records {
		if !rec.Usable() {
			log.Warn("Skipping family without usable variants", "family", rec.String())
			res.Skipped = append(res.Skipped, rec.FamilyName)
			continue
		}
		if rec.FamilyName == "" {
			log.Warn("Family has no familyName, routing to symbols", "displayName", rec.DisplayName)
		}

		shard := ShardOf(rec.FamilyName)
		shards[shard] = append(shards[shard], rec.Raw)
		res.Assigned[shard] = append(res.Assigned[shard], rec.FamilyName)

		formats := rec.Formats
		if formats == nil {
			formats = []string{}
		}
		res.Index = append(res.Index, IndexEntry{
			FamilyName:     rec.FamilyName,
			DisplayName:    rec.DisplayName,
			Formats:        formats,
			HasDefaultFont: rec.HasDefaultFont,
			FontCount:      rec.FontCount,
			Chunk:          shard,
		})
	}
	if res.Index == nil {
		res.Index = []IndexEntry{}
	}
	return res, shards
}

func writeAll(opts Options, shards map[string][]json.RawMessage, index []IndexEntry) error {
	if err := os.RemoveAll(opts.OutDir); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "clean %s: %v", opts.OutDir, err)
	}
	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "create %s: %v", opts.OutDir, err)
	}

	for _, shard := range Shards {
		data, err := json.Marshal(struct {
			Fonts []json.RawMessage `json:"fonts"`
		}{shards[shard]})
		if err != nil {
			return fmt.Errorf("marshal chunk %s: %w", shard, err)
		}
		if err := writeFile(opts, shard+".json", data); err != nil {
			return err
		}
	}

	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return writeFile(opts, IndexFilename, data)
}

func writeFile(opts Options, name string, data []byte) error {
	path := filepath.Join(opts.OutDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "%s: %v", path, err)
	}
	if !opts.Precompress {
		return nil
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(path+".gz", buf.Bytes(), 0644); err != nil {
		return errorx.Wrap(errorx.ErrWriteOutput, "%s.gz: %v", path, err)
	}
	return nil
}
