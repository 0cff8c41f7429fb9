package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// target is one GET route pair. LegacyPath defaults to Path when empty.
type target struct {
	Method     string `json:"method"`
	Path       string `json:"path"`
	LegacyPath string `json:"legacy_path"`
	Critical   bool   `json:"critical"`
}

func (t target) legacyPath() string {
	if t.LegacyPath == "" {
		return t.Path
	}
	return t.LegacyPath
}

// The legacy service names its routes differently and filters by the
// original status values.
var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/students", LegacyPath: "/students", Critical: true},
	{Method: http.MethodGet, Path: "/students?status=TENTATIVE", LegacyPath: "/students?status=仮申し込み"},
	{Method: http.MethodGet, Path: "/students?status=IN_PROGRESS", LegacyPath: "/students?status=受講中"},
	{Method: http.MethodGet, Path: "/courses", LegacyPath: "/courses"},
}

func loadTargets(path string) ([]target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file struct {
		Targets []target `json:"targets"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}
