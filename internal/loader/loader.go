// internal/loader/loader.go

// Package loader bulk-loads seed data into the library from delimited
// files. It only ever calls AddMember and AddItem, and a malformed row is
// skipped, never fatal.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"libris/internal/catalog"
	"libris/internal/library"
	"libris/internal/membership"
)

// rowFunc builds an entity from a CSV row and adds it to the library.
type rowFunc func(ctx context.Context, svc library.Service, row []string) error

// Result counts what a load did.
type Result struct {
	Loaded  int
	Skipped int
}

// LoadDir loads members.csv, books.csv, dvds.csv, and magazines.csv from
// dir. Missing files are skipped entirely.
func LoadDir(ctx context.Context, svc library.Service, dir string) (Result, error) {
	var total Result
	files := []struct {
		name string
		fn   rowFunc
	}{
		{"members.csv", addMember},
		{"books.csv", addBook},
		{"dvds.csv", addDVD},
		{"magazines.csv", addMagazine},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return total, fmt.Errorf("failed to open %s: %w", path, err)
		}

		res := loadCSV(ctx, svc, file, f.name, f.fn)
		file.Close()
		total.Loaded += res.Loaded
		total.Skipped += res.Skipped
	}
	return total, nil
}

// loadCSV feeds every data row of r through fn, skipping the header and
// any row that fails to parse or validate.
func loadCSV(ctx context.Context, svc library.Service, r io.Reader, name string, fn rowFunc) Result {
	var res Result

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header := true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("loader: %s: skipping unreadable row: %v", name, err)
			res.Skipped++
			continue
		}
		if header {
			header = false
			continue
		}
		if err := fn(ctx, svc, row); err != nil {
			log.Printf("loader: %s: skipping row: %v", name, err)
			res.Skipped++
			continue
		}
		res.Loaded++
	}
	return res
}

// members.csv: name,email
func addMember(ctx context.Context, svc library.Service, row []string) error {
	if len(row) < 2 {
		return fmt.Errorf("expected 2 fields, got %d", len(row))
	}
	member, err := membership.NewMember(row[0], row[1])
	if err != nil {
		return err
	}
	_, err = svc.AddMember(ctx, member)
	return err
}

// books.csv: title,authors,year,categories (authors and categories are
// |-separated)
func addBook(ctx context.Context, svc library.Service, row []string) error {
	if len(row) < 4 {
		return fmt.Errorf("expected 4 fields, got %d", len(row))
	}
	year, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return fmt.Errorf("bad year %q: %w", row[2], err)
	}
	book, err := catalog.NewBook(row[0], splitList(row[1]), year, splitList(row[3]))
	if err != nil {
		return err
	}
	_, err = svc.AddItem(ctx, book)
	return err
}

// dvds.csv: title,duration_minutes,age_rating,categories
func addDVD(ctx context.Context, svc library.Service, row []string) error {
	if len(row) < 4 {
		return fmt.Errorf("expected 4 fields, got %d", len(row))
	}
	duration, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", row[1], err)
	}
	dvd, err := catalog.NewDVD(row[0], duration, row[2], splitList(row[3]))
	if err != nil {
		return err
	}
	_, err = svc.AddItem(ctx, dvd)
	return err
}

// magazines.csv: title,publisher,year,categories
func addMagazine(ctx context.Context, svc library.Service, row []string) error {
	if len(row) < 4 {
		return fmt.Errorf("expected 4 fields, got %d", len(row))
	}
	year, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return fmt.Errorf("bad year %q: %w", row[2], err)
	}
	magazine, err := catalog.NewMagazine(row[0], row[1], year, splitList(row[3]))
	if err != nil {
		return err
	}
	_, err = svc.AddItem(ctx, magazine)
	return err
}

// splitList splits a |-separated field, dropping blank entries.
func splitList(field string) []string {
	var out []string
	for _, v := range strings.Split(field, "|") {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
