package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/logger"
	"github.com/san-kum/springpend/internal/spring"
)

const (
	metadataFile = "metadata.json"
	posesFile    = "poses.csv"
	springsFile  = "springs.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Source     string             `json:"source"`
	Timestamp  time.Time          `json:"timestamp"`
	Samples    int                `json:"samples"`
	From       int                `json:"from"`
	To         int                `json:"to"`
	Frames     int                `json:"frames"`
	Springs    string             `json:"springs"`
	Resolution spring.Resolution  `json:"resolution"`
	Ground     float64            `json:"ground"`
	Constants  map[string]float64 `json:"constants"`
	Static     []PoseRecord       `json:"static"`
}

// PoseRecord is one body pose in flat form.
type PoseRecord struct {
	Index    int        `json:"index"`
	Body     string     `json:"body"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Order    string     `json:"order"`
	Scale    [3]float64 `json:"scale"`
}

func record(index int, id kinematics.BodyID, p kinematics.Pose) PoseRecord {
	order := p.Rotation.Order
	if order == "" {
		order = "XYZ"
	}
	return PoseRecord{
		Index:    index,
		Body:     id.String(),
		Position: p.Position,
		Rotation: [3]float64{p.Rotation.X, p.Rotation.Y, p.Rotation.Z},
		Order:    string(order),
		Scale:    p.Scale,
	}
}

var poseHeader = []string{"index", "body", "x", "y", "z", "rx", "ry", "rz", "order", "sx", "sy", "sz"}
var springHeader = []string{"index", "spring", "rows", "cols", "min_x", "min_y", "min_z", "max_x", "max_y", "max_z"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (r PoseRecord) row() []string {
	row := []string{strconv.Itoa(r.Index), r.Body}
	for _, v := range r.Position {
		row = append(row, formatFloat(v))
	}
	for _, v := range r.Rotation {
		row = append(row, formatFloat(v))
	}
	row = append(row, r.Order)
	for _, v := range r.Scale {
		row = append(row, formatFloat(v))
	}
	return row
}

// Run is an open run directory. It is a scene and a frame observer: poses and
// surfaces published between two OnFrame calls belong to that frame.
type Run struct {
	dir      string
	meta     RunMetadata
	poses    *os.File
	springs  *os.File
	poseW    *csv.Writer
	springW  *csv.Writer
	pending  []PoseRecord
	surfaces map[spring.ID]*spring.Mesh
	err      error // first write failure; later frames are dropped
}

var (
	_ animator.Scene         = (*Run)(nil)
	_ animator.FrameObserver = (*Run)(nil)
)

// Create opens a new run directory. meta.ID and Timestamp are filled in.
func (s *Store) Create(name string, meta RunMetadata) (*Run, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", name, now.UnixNano())
	meta.Timestamp = now
	dir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	poses, err := os.Create(filepath.Join(dir, posesFile))
	if err != nil {
		return nil, err
	}
	springs, err := os.Create(filepath.Join(dir, springsFile))
	if err != nil {
		poses.Close()
		return nil, err
	}

	r := &Run{
		dir:      dir,
		meta:     meta,
		poses:    poses,
		springs:  springs,
		poseW:    csv.NewWriter(poses),
		springW:  csv.NewWriter(springs),
		surfaces: make(map[spring.ID]*spring.Mesh),
	}
	if err := r.poseW.Write(poseHeader); err != nil {
		r.Abort()
		return nil, err
	}
	if err := r.springW.Write(springHeader); err != nil {
		r.Abort()
		return nil, err
	}
	return r, nil
}

func (r *Run) ID() string { return r.meta.ID }

func (r *Run) UpsertBody(id kinematics.BodyID, pose kinematics.Pose) error {
	if r.err != nil {
		return r.err
	}
	if id.Static() {
		r.meta.Static = append(r.meta.Static, record(-1, id, pose))
		return nil
	}
	r.pending = append(r.pending, record(-1, id, pose))
	return nil
}

func (r *Run) ReplaceSurface(id spring.ID, mesh *spring.Mesh) error {
	r.surfaces[id] = mesh
	return nil
}

// OnFrame writes everything published since the previous frame.
func (r *Run) OnFrame(out *animator.Output) {
	if r.err != nil {
		return
	}
	defer func() { r.pending = r.pending[:0] }()
	for _, rec := range r.pending {
		rec.Index = out.Index
		if err := r.poseW.Write(rec.row()); err != nil {
			r.err = fmt.Errorf("%s: %w", posesFile, err)
			return
		}
	}

	for _, id := range spring.IDs {
		m, ok := r.surfaces[id]
		if !ok || m == nil {
			continue
		}
		lo, hi := m.Bounds()
		row := []string{strconv.Itoa(out.Index), id.String(), strconv.Itoa(m.Rows()), strconv.Itoa(m.Cols())}
		for _, v := range []float64{lo[0], lo[1], lo[2], hi[0], hi[1], hi[2]} {
			row = append(row, formatFloat(v))
		}
		if err := r.springW.Write(row); err != nil {
			r.err = fmt.Errorf("%s: %w", springsFile, err)
			return
		}
	}
	clear(r.surfaces)
	r.meta.Frames++
}

// Close flushes the CSV files and writes metadata.json.
func (r *Run) Close() error {
	r.poseW.Flush()
	r.springW.Flush()
	if err := multierr.Combine(r.err, r.poseW.Error(), r.springW.Error(), r.poses.Close(), r.springs.Close()); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.meta); err != nil {
		return err
	}
	logger.Debug("run stored", zap.String("dir", r.dir), zap.Int("frames", r.meta.Frames))
	return nil
}

// Abort closes the run files and removes the run directory.
func (r *Run) Abort() {
	r.poses.Close()
	r.springs.Close()
	os.RemoveAll(r.dir)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPoses returns the stored poses of one body in frame order.
func (s *Store) LoadPoses(runID string, body kinematics.BodyID) ([]PoseRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, posesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(poseHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	name := body.String()
	out := make([]PoseRecord, 0, len(records))
	for i, rec := range records {
		if i == 0 || rec[1] != name {
			continue
		}
		p, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", posesFile, i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRow(rec []string) (PoseRecord, error) {
	idx, err := strconv.Atoi(rec[0])
	if err != nil {
		return PoseRecord{}, err
	}
	vals := make([]float64, 0, 9)
	for _, col := range []int{2, 3, 4, 5, 6, 7, 9, 10, 11} {
		v, err := strconv.ParseFloat(rec[col], 64)
		if err != nil {
			return PoseRecord{}, err
		}
		vals = append(vals, v)
	}
	return PoseRecord{
		Index:    idx,
		Body:     rec[1],
		Position: [3]float64{vals[0], vals[1], vals[2]},
		Rotation: [3]float64{vals[3], vals[4], vals[5]},
		Order:    rec[8],
		Scale:    [3]float64{vals[6], vals[7], vals[8]},
	}, nil
}
