package world

import (
	"sync"
	"time"

	"github.com/automoto/doomerang-rooms/tilemap"
	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must stay quiet before its change is reported.
const debounce = 100 * time.Millisecond

// settled is sent when a file's debounce timer fires. gen tells a stale timer
// from the one last armed for the file.
type settled struct {
	path string
	gen  int
}

type pendingFile struct {
	timer *time.Timer
	gen   int
}

// Watcher reports changed map files in a set of directories. Events carries
// the path of each changed file.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the run loop
// has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Errors)
	defer close(w.Events)

	ready := make(chan settled)
	pending := make(map[string]*pendingFile)
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isMapFile(event.Name) {
				continue
			}
			p, ok := pending[event.Name]
			if !ok {
				p = &pendingFile{}
				pending[event.Name] = p
			} else {
				p.timer.Stop()
			}
			p.gen++
			s := settled{path: event.Name, gen: p.gen}
			p.timer = time.AfterFunc(debounce, func() {
				select {
				case ready <- s:
				case <-w.closeCh:
				}
			})
		case s := <-ready:
			if p, ok := pending[s.path]; !ok || p.gen != s.gen {
				continue
			}
			delete(pending, s.path)
			select {
			case w.Events <- s.path:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isMapFile(path string) bool {
	return tilemap.IsTMXFile(path) || tilemap.IsDescriptionFile(path)
}
