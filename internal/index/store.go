package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/logger"
)

// An index generation is two colocated artifacts that are only valid as a
// pair: the binary vector structure and the ordered paper metadata list.
// Position i in the index corresponds to papers[i]; there is no other join
// key.
const (
	IndexFileName = "index.bin"
	MetaFileName  = "metadata.json"
)

var indexMagic = [4]byte{'P', 'M', 'R', 'G'}

const indexVersion uint32 = 1

// Corpus couples a flat index with its parallel metadata list. Only
// paper-level lookups are exposed, so callers cannot observe or violate the
// positional join.
type Corpus struct {
	flat   *Flat
	papers []domain.Paper
}

// NewCorpus wraps an index and its metadata, enforcing the length invariant.
func NewCorpus(f *Flat, papers []domain.Paper) (*Corpus, error) {
	if f.Len() != len(papers) {
		return nil, fmt.Errorf("index holds %d vectors but metadata lists %d papers", f.Len(), len(papers))
	}
	return &Corpus{flat: f, papers: papers}, nil
}

// Len returns the number of papers in the corpus.
func (c *Corpus) Len() int { return len(c.papers) }

// Papers returns the metadata list in index order.
func (c *Corpus) Papers() []domain.Paper { return c.papers }

// Search embeds position mapping: it runs the nearest-neighbour search and
// resolves hits to papers, most similar first.
func (c *Corpus) Search(query []float32, k int) []domain.ScoredPaper {
	hits := c.flat.Search(query, k)
	out := make([]domain.ScoredPaper, len(hits))
	for i, h := range hits {
		out[i] = domain.ScoredPaper{Paper: c.papers[h.Position], Score: float64(h.Distance)}
	}
	return out
}

// Save atomically persists an index generation into dir. Both artifacts are
// staged as temp files and only renamed into place once both writes
// succeeded; a failed save leaves no partial pair behind.
func Save(dir string, f *Flat, papers []domain.Paper) error {
	if f.Len() != len(papers) {
		return fmt.Errorf("refusing to persist: %d vectors vs %d papers", f.Len(), len(papers))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	indexTmp := filepath.Join(dir, IndexFileName+".tmp")
	metaTmp := filepath.Join(dir, MetaFileName+".tmp")
	cleanup := func() {
		os.Remove(indexTmp)
		os.Remove(metaTmp)
	}

	if err := writeIndexFile(indexTmp, f); err != nil {
		cleanup()
		return fmt.Errorf("writing index artifact: %w", err)
	}
	meta, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		cleanup()
		return err
	}
	if err := os.WriteFile(metaTmp, meta, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("writing metadata artifact: %w", err)
	}

	indexPath := filepath.Join(dir, IndexFileName)
	metaPath := filepath.Join(dir, MetaFileName)
	if err := os.Rename(indexTmp, indexPath); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(metaTmp, metaPath); err != nil {
		// the half-renamed pair would poison future loads
		os.Remove(indexPath)
		cleanup()
		return err
	}
	logger.Debugf("persisted index generation: %d papers in %s", len(papers), dir)
	return nil
}

// Load reads an index generation from dir. A missing artifact means "no
// index available" and yields (nil, nil) so callers can fall back; a corrupt
// or mismatched pair is treated the same way after a warning, never returned
// half-consistent.
func Load(dir string) (*Corpus, error) {
	indexPath := filepath.Join(dir, IndexFileName)
	metaPath := filepath.Join(dir, MetaFileName)

	if _, err := os.Stat(indexPath); err != nil {
		return nil, nil
	}
	if _, err := os.Stat(metaPath); err != nil {
		logger.Warnf("index artifact present without metadata in %s; treating as no index", dir)
		return nil, nil
	}

	f, err := readIndexFile(indexPath)
	if err != nil {
		logger.Warnf("unreadable index artifact %s: %v", indexPath, err)
		return nil, nil
	}
	meta, err := os.ReadFile(metaPath)
	if err != nil {
		logger.Warnf("unreadable metadata artifact %s: %v", metaPath, err)
		return nil, nil
	}
	var papers []domain.Paper
	if err := json.Unmarshal(meta, &papers); err != nil {
		logger.Warnf("malformed metadata artifact %s: %v", metaPath, err)
		return nil, nil
	}

	corpus, err := NewCorpus(f, papers)
	if err != nil {
		logger.Warnf("inconsistent index pair in %s: %v", dir, err)
		return nil, nil
	}
	logger.Debugf("loaded index generation: %d papers from %s", len(papers), dir)
	return corpus, nil
}

func writeIndexFile(path string, f *Flat) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)

	if _, err := w.Write(indexMagic[:]); err != nil {
		file.Close()
		return err
	}
	header := []uint32{indexVersion, uint32(f.dim), uint32(len(f.vectors))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			file.Close()
			return err
		}
	}
	for _, row := range f.vectors {
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			file.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func readIndexFile(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	r := bufio.NewReader(file)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != indexMagic {
		return nil, errors.New("bad magic")
	}
	var version, dim, count uint32
	for _, dst := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, err
		}
	}
	if version != indexVersion {
		return nil, fmt.Errorf("unsupported index version %d", version)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		row := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, err
		}
		vectors[i] = row
	}
	return &Flat{dim: int(dim), vectors: vectors}, nil
}
