package core

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var watchedExts = map[string]bool{
	".html": true,
	".css":  true,
	".js":   true,
}

// Watcher calls onChange after files under the watched directories change.
// Bursts of events within the debounce window produce one call carrying
// every path that changed, sorted.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func(changed []string)
	debounce time.Duration

	once sync.Once
	done chan struct{}
}

func WatchDirs(dirs []string, debounce time.Duration, onChange func(changed []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:       fw,
		onChange: onChange,
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time
	pending := map[string]bool{}

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !watchedExts[filepath.Ext(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			w.onChange(changed)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}
