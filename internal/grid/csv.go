package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadCellsCSV reads one interim page dump — a positional CSV where each
// record is one table row and each field one cell — and returns its cells
// tagged with the given page number. These dumps are how the extraction
// collaborator hands pages to the core (and how they are cached between
// runs).
func ReadCellsCSV(r io.Reader, page int) ([]Cell, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var cells []Cell
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading cell dump page %d: %w", page, err)
		}
		for col, text := range record {
			cells = append(cells, Cell{Page: page, Row: row, Col: col, Text: text})
		}
		row++
	}
	return cells, nil
}

// LoadCells loads cells from a single page dump file or from a directory of
// per-page dumps named like "<stem>-pg-<n>.csv". A single file is page 1.
func LoadCells(path string) ([]Cell, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cell dump %s: %w", path, err)
	}

	if !info.IsDir() {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCellsCSV(f, 1)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	type pageFile struct {
		page int
		name string
	}
	var pages []pageFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		var n int
		stem := strings.TrimSuffix(e.Name(), ".csv")
		if i := strings.LastIndex(stem, "-pg-"); i >= 0 {
			if _, err := fmt.Sscanf(stem[i+4:], "%d", &n); err != nil {
				continue
			}
		} else {
			continue
		}
		pages = append(pages, pageFile{page: n, name: e.Name()})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no per-page cell dumps found in %s", path)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].page < pages[j].page })

	var cells []Cell
	for _, p := range pages {
		f, err := os.Open(filepath.Join(path, p.name))
		if err != nil {
			return nil, err
		}
		pageCells, err := ReadCellsCSV(f, p.page)
		f.Close()
		if err != nil {
			return nil, err
		}
		cells = append(cells, pageCells...)
	}
	return cells, nil
}
