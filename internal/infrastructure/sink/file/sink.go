// Package file writes finished artifacts to disk: one JSON-lines file per
// dataset kind plus a report.json, laid out as <root>/<league>/<season>/.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/courtdata/statpipe/internal/domain/dataset"
	"github.com/courtdata/statpipe/internal/qa"
)

type Sink struct {
	root string
}

func NewSink(root string) *Sink {
	return &Sink{root: root}
}

func (s *Sink) SaveDataset(ctx context.Context, table *dataset.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(s.root, table.League(), table.Season())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	schema := table.Schema()
	for i := 0; i < table.Len(); i++ {
		obj := make(map[string]any, len(schema.Columns))
		for j, col := range schema.Columns {
			obj[col.Name] = table.Row(i)[j].Native()
		}
		line, err := sonic.ConfigDefault.Marshal(obj)
		if err != nil {
			return fmt.Errorf("encode %s row %s: %w", table.Kind(), table.NaturalKeyOf(i), err)
		}
		_, _ = buf.Write(line)
		_ = buf.WriteByte('\n')
	}

	path := filepath.Join(dir, string(table.Kind())+".jsonl")
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write dataset file %s: %w", path, err)
	}

	return nil
}

func (s *Sink) SaveReport(ctx context.Context, league, season string, report *qa.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Join(s.root, league, season)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	payload, err := sonic.ConfigDefault.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode qa report: %w", err)
	}

	path := filepath.Join(dir, "report.json")
	if err := writeAtomic(path, payload); err != nil {
		return fmt.Errorf("write report file %s: %w", path, err)
	}

	return nil
}

// writeAtomic keeps readers from observing a half-written file.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
