package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"

	"degree-planner/internal/httpx"
)

// File layout of a catalog directory. Every file may instead be stored
// brotli-compressed with an extra ".br" suffix.
const (
	CoursesFile     = "all_sjsu_courses_with_ge.json"
	GEFile          = "ge_courses.json"
	ExamsFile       = "ap_courses.json"
	MajorsFile      = "sjsu_majors.json"
	RoadmapDir      = "roadmaps"
	TransferDir     = "community_college"
	MajorCatalogDir = "academic_catalog"

	brotliExt = ".br"
)

// LoadDir reads a catalog directory. The four top-level files are required; the
// roadmap, transfer and major catalog directories are optional.
func LoadDir(dir string) (*Catalog, error) {
	var data Data
	required := []struct {
		name string
		out  any
	}{
		{CoursesFile, &data.Courses},
		{GEFile, &data.GEAreas},
		{ExamsFile, &data.Exams},
		{MajorsFile, &data.Majors},
	}
	for _, f := range required {
		if err := readJSON(filepath.Join(dir, f.name), f.out); err != nil {
			return nil, fmt.Errorf("catalog: load %s: %w", f.name, err)
		}
	}

	var err error
	if data.Roadmaps, err = loadRoadmaps(filepath.Join(dir, RoadmapDir)); err != nil {
		return nil, err
	}

	data.Articulations = map[string]ArticulationRecord{}
	if err := eachJSON(filepath.Join(dir, TransferDir), func(stem string, raw []byte) error {
		var rec ArticulationRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		data.Articulations[stem] = rec
		return nil
	}); err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", TransferDir, err)
	}

	data.MajorCatalogs = map[string]MajorCatalogRecord{}
	if err := eachJSON(filepath.Join(dir, MajorCatalogDir), func(stem string, raw []byte) error {
		var rec MajorCatalogRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		data.MajorCatalogs[stem] = rec
		return nil
	}); err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", MajorCatalogDir, err)
	}

	return New(data), nil
}

func loadRoadmaps(dir string) (map[string][]RoadmapEntry, error) {
	out := map[string][]RoadmapEntry{}
	err := eachJSON(dir, func(stem string, raw []byte) error {
		entries, err := DecodeRoadmap(raw)
		if err != nil {
			return err
		}
		out[stem] = entries
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: load %s: %w", RoadmapDir, err)
	}
	return out, nil
}

// DecodeRoadmap accepts a bare entry list or an object wrapping it in "output".
func DecodeRoadmap(raw []byte) ([]RoadmapEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Output []RoadmapEntry `json:"output"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("decode roadmap: %w", err)
		}
		if wrapped.Output == nil {
			return nil, errors.New("decode roadmap: missing output list")
		}
		return wrapped.Output, nil
	}
	var entries []RoadmapEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}
	return entries, nil
}

// eachJSON calls fn for every .json or .json.br file of dir, keyed by the file
// stem. A missing directory is not an error.
func eachJSON(dir string, fn func(stem string, raw []byte) error) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		stem := strings.TrimSuffix(strings.TrimSuffix(name, brotliExt), ".json")
		if stem == name || stem == strings.TrimSuffix(name, brotliExt) {
			continue
		}
		raw, err := readFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := fn(stem, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func readJSON(path string, out any) error {
	raw, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) && !strings.HasSuffix(path, brotliExt) {
		raw, err = readFile(path + brotliExt)
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, brotliExt) {
		r = brotli.NewReader(f)
	}
	return io.ReadAll(r)
}

// Fetch downloads a single-file catalog bundle (the JSON form of Data). The
// server may compress it with brotli, either through Content-Encoding or by
// serving a ".br" object.
func Fetch(ctx context.Context, client *http.Client, url string, cfg httpx.RetryConfig) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	var data Data
	if strings.HasSuffix(url, brotliExt) {
		resp, body, err := httpx.Get(ctx, client, url, cfg)
		if err != nil {
			return nil, fmt.Errorf("catalog: fetch %s: %w", url, err)
		}
		// httpx already undid a transfer encoding; only raw ".br" objects remain compressed.
		if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
			if body, err = io.ReadAll(brotli.NewReader(bytes.NewReader(body))); err != nil {
				return nil, fmt.Errorf("catalog: decompress %s: %w", url, err)
			}
		}
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("catalog: decode %s: %w", url, err)
		}
		return New(data), nil
	}
	if err := httpx.GetJSON(ctx, client, url, &data, cfg); err != nil {
		return nil, fmt.Errorf("catalog: fetch %s: %w", url, err)
	}
	return New(data), nil
}
