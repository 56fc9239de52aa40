package boltdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"git.sr.ht/~mariusor/pamokos/storage"
	"git.sr.ht/~mariusor/pamokos/timetable"
)

type LoggerFn func(string, ...interface{})

type repo struct {
	d    *bolt.DB
	root []byte
	path string
	log  LoggerFn
	err  LoggerFn
}

const (
	rootBucket = "lessons"

	DefaultFile = "pamokos.bdb"
)

// Config
type Config struct {
	Path  string
	LogFn LoggerFn
	ErrFn LoggerFn
}

// New returns a new event repository backed by a boltdb file.
func New(c Config) *repo {
	b := repo{
		root: []byte(rootBucket),
		path: c.Path,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.ErrFn != nil {
		b.err = c.ErrFn
	}
	if c.LogFn != nil {
		b.log = c.LogFn
	}

	return &b
}

func (r *repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("could not open db %s %w", r.path, err)
	}
	err = r.d.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(r.root)
		if err != nil {
			return fmt.Errorf("unable to create root bucket %s: %w", r.root, err)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable root bucket %s", r.root)
		}
		return nil
	})
	return err
}

// Close closes the boltdb database if possible.
func (r *repo) close() error {
	if r.d == nil {
		return nil
	}
	return r.d.Close()
}

// LoadEvent returns the event with the given identifier around date, or the
// zero event when nothing matches.
func (r *repo) LoadEvent(date time.Time, uid string) timetable.Event {
	events, err := r.LoadEvents(storage.DateCursor{T: date.Add(-12 * time.Hour), D: 24 * time.Hour})
	if err != nil {
		r.err("error loading events: %s", err)
	}
	for _, event := range events {
		if event.UID == uid {
			return event
		}
	}
	return timetable.Event{}
}

// LoadEvents returns all stored events inside the cursor window.
func (r *repo) LoadEvents(cursor storage.DateCursor) (timetable.Events, error) {
	var err error
	err = r.open()
	if err != nil {
		return nil, err
	}
	defer r.close()
	return loadFromBucket(r.d, r.root, cursor)
}

func loadFromBucketRecursive(b *bolt.Bucket, min, max [][]byte) timetable.Events {
	events := make(timetable.Events, 0)

	// Only the current path segment bounds this level, the rest of the
	// min/max paths travel down along the boundary buckets.
	var lo, hi []byte
	if len(min) > 0 {
		lo = min[0]
	}
	if len(max) > 0 {
		hi = max[0]
	}

	c := b.Cursor()

	first := func() ([]byte, []byte) { return c.First() }
	compare := func(k, v []byte) bool { return k != nil }
	if lo != nil {
		first = func() ([]byte, []byte) { return c.Seek(lo) }
	}
	if hi != nil {
		compare = func(k, v []byte) bool { return k != nil && bytes.Compare(k, hi) <= 0 }
	}
	for key, raw := first(); compare(key, raw); key, raw = c.Next() {
		if raw == nil {
			// this is a bucket mate: descend!
			var cmin, cmax [][]byte
			if bytes.Equal(key, lo) {
				cmin = min[1:]
			}
			if bytes.Equal(key, hi) {
				cmax = max[1:]
			}
			events = append(events, loadFromBucketRecursive(b.Bucket(key), cmin, cmax)...)
		} else {
			ev, err := loadItem(raw)
			if err == nil && ev.IsValid() {
				events = append(events, ev)
			}
		}
	}

	return events
}

func loadFromBucket(db *bolt.DB, root []byte, cursor storage.DateCursor) (timetable.Events, error) {
	events := make(timetable.Events, 0)

	err := db.View(func(tx *bolt.Tx) error {
		rb := tx.Bucket(root)
		if rb == nil {
			return fmt.Errorf("invalid bucket %s", root)
		}

		min, max := getCursorPaths(cursor)
		b, minPieces, maxPieces := descendToLastCommonBucket(rb, min, max)
		events = append(events, loadFromBucketRecursive(b, minPieces, maxPieces)...)
		return nil
	})

	return events, err
}

func loadItem(raw []byte) (timetable.Event, error) {
	ev := timetable.Event{}
	if len(raw) == 0 {
		return ev, fmt.Errorf("empty raw item")
	}
	err := json.Unmarshal(raw, &ev)
	return ev, err
}

var pathSeparator = []byte{'/'}

func getCursorPaths(c storage.DateCursor) ([]byte, []byte) {
	var min, max []byte
	if c.D < 0 {
		max = itemBucketPath(c.T)
		min = itemBucketPath(c.T.Add(c.D))
	} else {
		min = itemBucketPath(c.T)
		max = itemBucketPath(c.T.Add(c.D))
	}
	return min, max
}

func itemBucketPath(date time.Time) []byte {
	date = date.UTC()
	pathEl := make([][]byte, 0)

	pathEl = append(pathEl, []byte(date.Format("06")))
	pathEl = append(pathEl, []byte(date.Format("01")))
	pathEl = append(pathEl, []byte(date.Format("02")))

	return bytes.Join(pathEl, pathSeparator)
}

func descendToLastCommonBucket(root *bolt.Bucket, min, max []byte) (*bolt.Bucket, [][]byte, [][]byte) {
	minPieces := bytes.Split(min, pathSeparator)
	maxPieces := bytes.Split(max, pathSeparator)

	b := root
	// lvl stays -1 until a descent happens, a mismatch on the first piece
	// keeps the full paths relative to the root bucket.
	lvl := -1
	// the length should be the same
	for i, k := range minPieces {
		if !bytes.Equal(k, maxPieces[i]) {
			break
		}
		cb := b.Bucket(k)
		if cb == nil {
			break
		}
		lvl = i
		b = cb
	}
	return b, minPieces[lvl+1:], maxPieces[lvl+1:]
}

func descendInBucket(root *bolt.Bucket, path []byte, create bool) (*bolt.Bucket, []byte, error) {
	if root == nil {
		return nil, path, fmt.Errorf("trying to descend into nil bucket")
	}
	if len(path) == 0 {
		return root, path, nil
	}
	buckets := bytes.Split(path, pathSeparator)

	lvl := 0
	b := root
	// descend the bucket tree up to the last found bucket
	for _, name := range buckets {
		lvl++
		if len(name) == 0 {
			continue
		}
		if b == nil {
			return root, path, fmt.Errorf("trying to load from nil bucket")
		}
		var cb *bolt.Bucket
		if create {
			cb, _ = b.CreateBucketIfNotExists(name)
		} else {
			cb = b.Bucket(name)
		}
		if cb == nil {
			lvl--
			break
		}
		b = cb
	}
	path = bytes.Join(buckets[lvl:], pathSeparator)

	return b, path, nil
}

// SaveEvents stores every event of the snapshot, events keep their derived
// identifier as key so a re-fetch overwrites in place instead of duplicating.
func (r *repo) SaveEvents(events timetable.Events) error {
	var err error
	err = r.open()
	if err != nil {
		return err
	}
	defer r.close()

	for _, ev := range events {
		ev, err = save(r, ev)
		if err != nil {
			r.err("Error saving event %s: %s", ev.UID, err)
		}
	}
	return err
}

// SaveEvent
func (r *repo) SaveEvent(ev timetable.Event) error {
	var err error
	err = r.open()
	if err != nil {
		return err
	}
	defer r.close()

	_, err = save(r, ev)
	return err
}

func save(r *repo, ev timetable.Event) (timetable.Event, error) {
	path := itemBucketPath(ev.StartTime)

	err := r.d.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable bucket %s", r.root)
		}
		b, path, err := descendInBucket(root, path, true)
		if err != nil {
			return fmt.Errorf("unable to find %s in root bucket: %w", path, err)
		}
		if !b.Writable() {
			return fmt.Errorf("non writeable bucket %s", path)
		}
		entryBytes, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("could not marshal object: %w", err)
		}
		err = b.Put([]byte(ev.UID), entryBytes)
		if err != nil {
			return fmt.Errorf("could not store encoded object: %w", err)
		}

		return nil
	})

	return ev, err
}
