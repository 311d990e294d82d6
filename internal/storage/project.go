/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

const (
	ManifestFileName = "sketch.json"
	BackupsDirName   = "backups"
)

var standardSubDirs = []string{
	"exports",
	BackupsDirName,
}

// Manifest is the on-disk form of a sketch plus its user-facing metadata.
type Manifest struct {
	Name      string          `json:"name"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Document  sketch.Document `json:"document"`
}

// SketchHandle tracks a sketch directory loaded from or saved to disk.
// Root is the directory containing sketch.json and its subfolders.
type SketchHandle struct {
	Root         string
	ManifestPath string
	Manifest     Manifest
}

// Init creates a new sketch directory at root (creating it if needed),
// scaffolds the standard subfolders, and writes the manifest
// transactionally.
func Init(root string, m Manifest) (*SketchHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create sketch root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	h := &SketchHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Manifest:     m,
	}
	if err := Save(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Open loads an existing sketch from root. The manifest is validated
// against the embedded document schema; if the current manifest cannot be
// read, parsed or validated, the latest backup is tried.
func Open(root string) (*SketchHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		m, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &SketchHandle{Root: root, ManifestPath: mpath, Manifest: *m}, nil
	}
	m, perr := parseManifest(b)
	if perr != nil {
		bm, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", perr, berr)
		}
		return &SketchHandle{Root: root, ManifestPath: mpath, Manifest: *bm}, nil
	}
	return &SketchHandle{Root: root, ManifestPath: mpath, Manifest: *m}, nil
}

func parseManifest(b []byte) (*Manifest, error) {
	if err := ValidateManifest(b); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save writes the manifest to disk with transactional semantics and a
// timestamped backup of the previous manifest when present.
func Save(h *SketchHandle) error {
	if h == nil {
		return errors.New("nil SketchHandle")
	}
	if h.Root == "" || h.ManifestPath == "" {
		return errors.New("invalid SketchHandle: missing paths")
	}
	h.Manifest.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(h.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	if _, statErr := os.Stat(h.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp)
		if cerr := copyFile(h.ManifestPath, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// temp file in the same directory, then rename over the target
	dir := filepath.Dir(h.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing the destination first if needed
	if _, err := os.Stat(h.ManifestPath); err == nil {
		_ = os.Remove(h.ManifestPath)
	}
	if rerr := os.Rename(temp, h.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// SaveAs writes the manifest into a new root, scaffolding the directory
// structure, and updates the handle.
func SaveAs(h *SketchHandle, newRoot string) error {
	if h == nil {
		return errors.New("nil SketchHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	h.Root = newRoot
	h.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(h)
}

// AutosaveCrashSnapshot writes the in-memory manifest to the backups folder
// without touching sketch.json. The crash handler calls this as a last
// resort, so it never rotates backups or bumps UpdatedAt.
func AutosaveCrashSnapshot(h *SketchHandle) (string, error) {
	if h == nil {
		return "", errors.New("nil SketchHandle")
	}
	data, err := json.MarshalIndent(h.Manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("autosave-crash-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies src to dst, overwriting dst if it exists.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries the newest timestamped backup that still
// parses and validates.
func openFromLatestBackup(root string) (*Manifest, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	// timestamp in the name yields lexicographic order; walk newest first
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))
	var lastErr error
	for _, path := range candidates {
		b, rerr := os.ReadFile(path)
		if rerr != nil {
			lastErr = rerr
			continue
		}
		m, perr := parseManifest(b)
		if perr != nil {
			lastErr = perr
			continue
		}
		return m, nil
	}
	return nil, fmt.Errorf("no usable backup: %w", lastErr)
}
