package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dshills/tilestorm/internal/editor/tilemap"
)

// FormatVersion is the map file version written by Save.
const FormatVersion = 1

// mapFile is the on-disk YAML layout of a document.
type mapFile struct {
	Version    int                `yaml:"version"`
	ID         string             `yaml:"id"`
	Name       string             `yaml:"name,omitempty"`
	Rows       int                `yaml:"rows"`
	Columns    int                `yaml:"columns"`
	TileWidth  int                `yaml:"tileWidth"`
	TileHeight int                `yaml:"tileHeight"`
	Tiles      [][]tilemap.TileID `yaml:"tiles,flow"`
	Properties map[string]string  `yaml:"properties,omitempty"`
}

// Save writes the document to its path and marks it clean.
func (d *Document) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.path == "" {
		return ErrNoPath
	}
	return d.saveLocked(d.path)
}

// SaveAs writes the document to path, adopts path and marks it clean.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return ErrNoPath
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.saveLocked(path); err != nil {
		return err
	}
	d.path = path
	return nil
}

func (d *Document) saveLocked(path string) error {
	data, err := d.encode()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		d.logger.Error("save %s failed: %v", path, err)
		return err
	}

	d.stack.MarkAsClean()
	d.logger.Info("saved %s", path)
	return nil
}

func (d *Document) encode() ([]byte, error) {
	w, h := d.m.TileSize()
	f := mapFile{
		Version:    FormatVersion,
		ID:         d.id.String(),
		Name:       d.m.Name(),
		Rows:       d.m.Rows(),
		Columns:    d.m.Columns(),
		TileWidth:  w,
		TileHeight: h,
		Tiles:      d.m.Tiles(),
		Properties: d.m.Properties(),
	}
	return yaml.Marshal(&f)
}

// writeFileAtomic writes data to a temporary file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}

// Open reads a document from path. The opened document is clean and has
// an empty history.
func Open(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}

	m, id, err := decode(data)
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	d := newDocument(m, path, id, opts...)
	d.logger.Info("opened %s (%dx%d)", path, m.Rows(), m.Columns())
	return d, nil
}

func decode(data []byte) (*tilemap.Map, uuid.UUID, error) {
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, uuid.Nil, err
	}

	if f.Version > FormatVersion {
		return nil, uuid.Nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}

	id, err := uuid.Parse(f.ID)
	if err != nil {
		id = uuid.New()
	}

	if len(f.Tiles) != f.Rows {
		return nil, uuid.Nil, fmt.Errorf("tiles has %d rows, header says %d", len(f.Tiles), f.Rows)
	}
	if f.Rows > 0 && len(f.Tiles[0]) != f.Columns {
		return nil, uuid.Nil, fmt.Errorf("tiles has %d columns, header says %d", len(f.Tiles[0]), f.Columns)
	}

	m, err := tilemap.FromTiles(f.Tiles)
	if err != nil {
		return nil, uuid.Nil, err
	}
	m.SetName(f.Name)
	m.SetTileSize(f.TileWidth, f.TileHeight)

	for name, value := range f.Properties {
		if err := m.SetProperty(name, value); err != nil {
			return nil, uuid.Nil, fmt.Errorf("property %q: %w", name, err)
		}
	}

	return m, id, nil
}
