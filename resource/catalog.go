package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/reillywatson/agentfiles/agent"
)

const keyPrefix = "resource/"

var _ Catalog = &BadgerCatalog{}

// BadgerCatalog stores resource records in badger, keyed by agent id,
// execution id and file name.
type BadgerCatalog struct {
	db           *badger.DB
	storageType  StorageType
	remotePrefix string
	now          func() time.Time
}

// OpenBadgerCatalog opens (or creates) the catalog in dir. An empty dir keeps
// everything in memory. New records get storageType; REMOTE records are keyed
// under remotePrefix in the object store.
func OpenBadgerCatalog(dir string, storageType StorageType, remotePrefix string) (*BadgerCatalog, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", dir, err)
	}
	return &BadgerCatalog{
		db:           db,
		storageType:  storageType,
		remotePrefix: remotePrefix,
		now:          time.Now,
	}, nil
}

func (c *BadgerCatalog) MakeOrGet(ctx context.Context, name, localPath string, a *agent.Agent, e *agent.Execution) (Resource, error) {
	if err := ctx.Err(); err != nil {
		return Resource{}, err
	}
	fi, err := os.Stat(localPath)
	if err != nil {
		return Resource{}, err
	}
	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(localPath); err == nil {
		contentType = mt.String()
	}

	var agentID, executionID int64
	if a != nil {
		agentID = a.ID
	}
	if e != nil {
		executionID = e.ID
	}
	key := []byte(fmt.Sprintf("%s%d/%d/%s", keyPrefix, agentID, executionID, name))
	now := c.now().UTC()

	var res Resource
	err = c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
			res = Resource{
				ID:          uuid.NewString(),
				Name:        name,
				StorageType: c.storageType,
				AgentID:     agentID,
				ExecutionID: executionID,
				CreatedAt:   now,
			}
			res.Path = localPath
			if c.storageType == Remote {
				res.Path = c.remoteKey(name, a, e)
			}
		case err != nil:
			return err
		default:
			if err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &res)
			}); err != nil {
				return err
			}
		}
		res.Size = fi.Size()
		res.ContentType = contentType
		res.UpdatedAt = now
		v, err := json.Marshal(res)
		if err != nil {
			return err
		}
		return txn.Set(key, v)
	})
	if err != nil {
		return Resource{}, fmt.Errorf("catalog %s: %w", name, err)
	}
	return res, nil
}

// List returns every record, ordered by key.
func (c *BadgerCatalog) List(ctx context.Context) ([]Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resources := []Resource{}
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var r Resource
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &r)
			}); err != nil {
				return err
			}
			resources = append(resources, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resources, nil
}

func (c *BadgerCatalog) Close() error {
	return c.db.Close()
}

func (c *BadgerCatalog) remoteKey(name string, a *agent.Agent, e *agent.Execution) string {
	parts := []string{c.remotePrefix}
	if a != nil {
		parts = append(parts, FormatName(a.Name, a.ID))
	}
	if e != nil {
		parts = append(parts, FormatName(e.Name, e.ID))
	}
	return path.Join(append(parts, name)...)
}
