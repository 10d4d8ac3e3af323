// Package report writes the record of a finished split analysis.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"split-analyzer/pkg/geometry"
)

// Version is the current report file version.
const Version = 1

// File is the JSON record written next to the returned part images.
type File struct {
	Version   int       `json:"version"`
	RequestID string    `json:"request_id,omitempty"`
	Created   time.Time `json:"created"`
	ElapsedMS int64     `json:"elapsed_ms"`

	// Paths are relative to the report file when possible
	ImagePath string `json:"image,omitempty"`
	Part1Path string `json:"part1,omitempty"`
	Part2Path string `json:"part2,omitempty"`

	ImageSize geometry.SizeInt   `json:"image_size"`
	Points    []geometry.Point2D `json:"points"`
	Question  string             `json:"question"`
	Answer    string             `json:"answer"`

	ModelReady bool `json:"model_ready"`
}

// New creates a report for one request.
func New(requestID string, size geometry.SizeInt, points []geometry.Point2D, question string) *File {
	return &File{
		Version:   Version,
		RequestID: requestID,
		Created:   time.Now(),
		ImageSize: size,
		Points:    append([]geometry.Point2D(nil), points...),
		Question:  question,
	}
}

// Load reads a report from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rep File
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}

	return &rep, nil
}

// Save writes the report to path.
func (f *File) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage records the source image path relative to the report.
func (f *File) SetImage(reportPath, imagePath string) {
	f.ImagePath = relativeTo(reportPath, imagePath)
}

// SetParts records the part image paths relative to the report.
// An empty path leaves that part unset.
func (f *File) SetParts(reportPath, part1, part2 string) {
	if part1 != "" {
		f.Part1Path = relativeTo(reportPath, part1)
	}
	if part2 != "" {
		f.Part2Path = relativeTo(reportPath, part2)
	}
}

// GetImagePath returns the absolute path to the source image.
func (f *File) GetImagePath(reportPath string) string {
	return resolve(reportPath, f.ImagePath)
}

// GetPartPaths returns the absolute paths to both part images.
func (f *File) GetPartPaths(reportPath string) (string, string) {
	return resolve(reportPath, f.Part1Path), resolve(reportPath, f.Part2Path)
}

func relativeTo(reportPath, target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	dir, err := filepath.Abs(filepath.Dir(reportPath))
	if err != nil {
		return target
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return target
	}
	return rel
}

func resolve(reportPath, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(reportPath), p)
}
