// Package persist loads and saves the whole forum store.
//
// A Backend is asked to Load once at startup and to Save after every
// successful mutating request. Load returns a nil snapshot when nothing has
// been saved yet.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SergeyParamoshkin/forum/internal/config"
	"github.com/SergeyParamoshkin/forum/internal/store"
)

var ErrUnknownDriver = errors.New("persist: unknown driver")

type Backend interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, snap *store.Snapshot) error
	Close() error
}

type Options struct {
	Driver   string
	Path     string
	RedisURL string
	RedisKey string
}

// Open connects the backend selected by opts.Driver. Every snapshot saved
// through it is stamped with a fresh revision id.
func Open(ctx context.Context, opts Options) (Backend, error) {
	var (
		b   Backend
		err error
	)

	switch opts.Driver {
	case config.DriverYAML:
		b = NewFile(opts.Path)
	case config.DriverSQLite:
		b, err = OpenSQLite(ctx, opts.Path)
	case config.DriverRedis:
		b, err = OpenRedis(ctx, opts.RedisURL, opts.RedisKey)
	case config.DriverMemory:
		b = Memory{}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	return &revisioned{Backend: b}, nil
}

type revisioned struct {
	Backend
}

func (r *revisioned) Save(ctx context.Context, snap *store.Snapshot) error {
	snap.Revision = uuid.NewString()

	return r.Backend.Save(ctx, snap)
}

// Memory keeps nothing: Load finds no snapshot and Save discards it.
type Memory struct{}

func (Memory) Load(context.Context) (*store.Snapshot, error) { return nil, nil }

func (Memory) Save(context.Context, *store.Snapshot) error { return nil }

func (Memory) Close() error { return nil }
