package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atlasgraph/atlas/pkg/graph"
)

// snapshotFile is the on-disk layout watched by FileSource.
type snapshotFile struct {
	Nodes []graph.NodeRecord `json:"nodes"`
	Edges []graph.EdgeRecord `json:"edges"`
}

// FileSource watches a snapshot JSON file and emits deltas describing
// each observed change. Editors often fire several filesystem events
// per save, so reloads are debounced.
type FileSource struct {
	path     string
	debounce time.Duration
	emit     func(*graph.Delta)

	prev    snapshotFile
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileSource creates a source for path. emit receives one delta per
// debounced file change.
func NewFileSource(path string, emit func(*graph.Delta)) *FileSource {
	return &FileSource{
		path:     path,
		debounce: 100 * time.Millisecond,
		emit:     emit,
		done:     make(chan struct{}),
	}
}

// Load reads the file and returns its full content as seed data.
func (fs *FileSource) Load() ([]graph.NodeRecord, []graph.EdgeRecord, error) {
	content, err := readSnapshotFile(fs.path)
	if err != nil {
		return nil, nil, err
	}
	fs.prev = content
	return content.Nodes, content.Edges, nil
}

// Watch starts the filesystem watcher. The parent directory is watched
// rather than the file itself so atomic rename-over-save is caught.
func (fs *FileSource) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("feed: watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(fs.path)); err != nil {
		w.Close()
		return fmt.Errorf("feed: watch %s: %w", fs.path, err)
	}
	fs.watcher = w
	go fs.loop()
	return nil
}

// Close stops the watcher.
func (fs *FileSource) Close() error {
	close(fs.done)
	if fs.watcher != nil {
		return fs.watcher.Close()
	}
	return nil
}

func (fs *FileSource) loop() {
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(fs.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(fs.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			fs.reload()
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[FileSource] watch error: %v", err)
		case <-fs.done:
			return
		}
	}
}

func (fs *FileSource) reload() {
	next, err := readSnapshotFile(fs.path)
	if err != nil {
		log.Printf("[FileSource] reload failed, keeping previous state: %v", err)
		return
	}
	delta := DiffSnapshots(fs.prev.Nodes, fs.prev.Edges, next.Nodes, next.Edges)
	fs.prev = next
	if delta.Empty() {
		return
	}
	fs.emit(delta)
}

func readSnapshotFile(path string) (snapshotFile, error) {
	var content snapshotFile
	data, err := os.ReadFile(path)
	if err != nil {
		return content, fmt.Errorf("feed: read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &content); err != nil {
		return content, fmt.Errorf("feed: parse snapshot: %w", err)
	}
	return content, nil
}

// DiffSnapshots computes the delta turning the old state into the new
// one. Changed records travel as adds, which the store treats as full
// replacement.
func DiffSnapshots(oldNodes []graph.NodeRecord, oldEdges []graph.EdgeRecord, newNodes []graph.NodeRecord, newEdges []graph.EdgeRecord) *graph.Delta {
	d := &graph.Delta{Timestamp: time.Now().UTC().Format(time.RFC3339)}

	prevN := make(map[string]graph.NodeRecord, len(oldNodes))
	for _, n := range oldNodes {
		prevN[n.ID] = n
	}
	for _, n := range newNodes {
		old, ok := prevN[n.ID]
		if !ok || !reflect.DeepEqual(old, n) {
			d.AddNodes = append(d.AddNodes, n)
		}
		delete(prevN, n.ID)
	}
	for id := range prevN {
		d.RemoveNodeIDs = append(d.RemoveNodeIDs, id)
	}

	prevE := make(map[string]graph.EdgeRecord, len(oldEdges))
	for _, e := range oldEdges {
		prevE[e.ID] = e
	}
	for _, e := range newEdges {
		old, ok := prevE[e.ID]
		if !ok || !reflect.DeepEqual(old, e) {
			d.AddEdges = append(d.AddEdges, e)
		}
		delete(prevE, e.ID)
	}
	for id := range prevE {
		d.RemoveEdgeIDs = append(d.RemoveEdgeIDs, id)
	}
	return d
}
