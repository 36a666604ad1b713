package journal

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Config struct {
	Dir         string
	SegmentSize int64
}

const defaultSegmentSize = 2 * 1024 * 1024

type Journal struct {
	dir      string
	segSize  int64
	current  *segment
	segIndex int
}

func Open(cfg Config) (*Journal, error) {
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = defaultSegmentSize
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}

	// Resume the highest existing segment so appends stay ordered.
	index, err := lastSegmentIndex(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}

	seg, err := openSegment(cfg.Dir, index)
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}

	return &Journal{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		current:  seg,
		segIndex: index,
	}, nil
}

func (j *Journal) Append(r *Record) error {
	payloadLen := uint32(len(r.Data))

	// Frame: [type:1][seq:8][time:8][len:4][payload][crc:4]
	buf := make([]byte, 1+8+8+4+payloadLen+4)

	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[21:], r.Data)

	crc := checksum(buf[:21+payloadLen])
	binary.BigEndian.PutUint32(buf[21+payloadLen:], crc)

	if err := j.current.append(buf); err != nil {
		return err
	}

	if j.current.offset >= j.segSize {
		return j.rotate()
	}
	return nil
}

func (j *Journal) Sync() error {
	return j.current.sync()
}

func (j *Journal) Close() error {
	return j.current.close()
}

func (j *Journal) rotate() error {
	_ = j.current.close()
	j.segIndex++

	seg, err := openSegment(j.dir, j.segIndex)
	if err != nil {
		return err
	}

	j.current = seg
	return nil
}

// TruncateBefore removes whole segments whose highest sequence is at or
// below seq. Called after a snapshot covers those orders.
func (j *Journal) TruncateBefore(seq uint64) error {
	files, err := filepath.Glob(filepath.Join(j.dir, "segment-*.jnl"))
	if err != nil {
		return err
	}

	for _, path := range files {
		if j.current != nil && path == j.current.file.Name() {
			continue
		}
		maxSeq, err := maxSeqInSegment(path)
		if err != nil {
			continue
		}
		if maxSeq <= seq {
			_ = os.Remove(path)
		}
	}
	return nil
}

func lastSegmentIndex(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "segment-*.jnl"))
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}
	sort.Strings(files)

	var index int
	_, err = fmt.Sscanf(filepath.Base(files[len(files)-1]), "segment-%06d.jnl", &index)
	if err != nil {
		return 0, err
	}
	return index, nil
}
