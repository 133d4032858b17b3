// Package storage describes the on-disk layout shared by the metadata,
// row and index stores.
//
// Every table lives in its own directory under the data directory:
//
//	<data>/<table>/meta.json              metadata record
//	<data>/<table>/rows.jsonl             append-only row log, one JSON object per line
//	<data>/<table>/indexes/<col>.json     index record: value -> row positions
//	<data>/<table>/indexes/<col>.bloom    bloom filter over the index keys
package storage

import "path/filepath"

const (
	metaFile    = "meta.json"
	rowsFile    = "rows.jsonl"
	indexDir    = "indexes"
	indexSuffix = ".json"
	bloomSuffix = ".bloom"
)

// Layout resolves file paths below a data directory
type Layout struct {
	Dir string
}

func NewLayout(dir string) Layout {
	return Layout{Dir: dir}
}

func (l Layout) TableDir(table string) string {
	return filepath.Join(l.Dir, table)
}

func (l Layout) MetaPath(table string) string {
	return filepath.Join(l.Dir, table, metaFile)
}

func (l Layout) RowsPath(table string) string {
	return filepath.Join(l.Dir, table, rowsFile)
}

func (l Layout) IndexPath(table, column string) string {
	return filepath.Join(l.Dir, table, indexDir, column+indexSuffix)
}

func (l Layout) BloomPath(table, column string) string {
	return filepath.Join(l.Dir, table, indexDir, column+bloomSuffix)
}
