package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/pkg/redis"
	"github.com/stockdesk/server/internal/pkg/validation"
)

var (
	ErrNotFound       = errors.New("draft not found")
	ErrSourceNotFound = errors.New("draft source not found")
	// ErrConflict is returned when another request changed the draft between
	// read and write.
	ErrConflict = errors.New("draft was modified concurrently")
)

// Seeder loads the persisted groups of an item (variants) or category
// (attributes). A nil result means the source does not exist.
type Seeder interface {
	Seeds(kind fieldgroup.Kind, id string) ([]fieldgroup.Seed, error)
}

// SeederFunc adapts a function to Seeder.
type SeederFunc func(kind fieldgroup.Kind, id string) ([]fieldgroup.Seed, error)

func (f SeederFunc) Seeds(kind fieldgroup.Kind, id string) ([]fieldgroup.Seed, error) {
	return f(kind, id)
}

type Service struct {
	rdb    *redis.Client
	ttl    time.Duration
	seeder Seeder
	logger *zap.Logger
	now    func() time.Time
}

func NewService(rdb *redis.Client, ttl time.Duration, seeder Seeder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rdb: rdb, ttl: ttl, seeder: seeder, logger: logger.Named("DraftService"), now: time.Now}
}

func (s *Service) key(id string) string {
	return s.rdb.Key("draft", id)
}

// Create starts a draft. With an item or category id the draft is seeded from
// its persisted groups (edit flow); otherwise it starts empty.
func (s *Service) Create(ctx context.Context, dto *CreateDraftDTO) (*View, error) {
	kind, sourceID, err := resolveSource(dto)
	if err != nil {
		return nil, err
	}

	collection := fieldgroup.New(kind)
	if sourceID != "" {
		if s.seeder == nil {
			return nil, ErrSourceNotFound
		}
		seeds, err := s.seeder.Seeds(kind, sourceID)
		if err != nil {
			return nil, fmt.Errorf("load draft seeds: %w", err)
		}
		if seeds == nil {
			return nil, ErrSourceNotFound
		}
		collection = fieldgroup.Initialize(kind, seeds)
	}

	now := s.now()
	d := &Draft{
		ID:         uuid.NewString(),
		Collection: collection,
		SourceID:   sourceID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, s.key(d.ID), data, s.ttl); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	s.logger.Debug("draft created", zap.String("id", d.ID), zap.String("kind", string(kind)), zap.Int("groups", collection.Len()))
	return newView(d), nil
}

func resolveSource(dto *CreateDraftDTO) (fieldgroup.Kind, string, error) {
	itemID := trimmed(dto.ItemID)
	categoryID := trimmed(dto.CategoryID)

	if itemID != "" && categoryID != "" {
		return "", "", validation.Field("item_id", "send either item_id or category_id")
	}

	var kind fieldgroup.Kind
	if strings.TrimSpace(dto.Kind) != "" {
		k, err := fieldgroup.ParseKind(dto.Kind)
		if err != nil {
			return "", "", validation.Field("kind", err.Error())
		}
		kind = k
	}

	switch {
	case itemID != "":
		if kind != "" && kind != fieldgroup.KindVariant {
			return "", "", validation.Field("item_id", "items carry variants")
		}
		return fieldgroup.KindVariant, itemID, nil
	case categoryID != "":
		if kind != "" && kind != fieldgroup.KindAttribute {
			return "", "", validation.Field("category_id", "categories carry attributes")
		}
		return fieldgroup.KindAttribute, categoryID, nil
	case kind == "":
		return "", "", validation.Field("kind", "kind is required")
	default:
		return kind, "", nil
	}
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func (s *Service) load(ctx context.Context, id string) (*Draft, error) {
	raw, err := s.rdb.Get(ctx, s.key(id))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, ErrNotFound
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return &d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newView(d), nil
}

// mutate applies fn to the stored draft inside a WATCH transaction, so a
// concurrent writer makes this call fail with ErrConflict instead of one
// update silently overwriting the other.
func (s *Service) mutate(ctx context.Context, id string, fn func(fieldgroup.Collection) fieldgroup.Collection) (*Draft, error) {
	key := s.key(id)
	var out Draft

	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode draft %s: %w", id, err)
		}

		out.Collection = fn(out.Collection)
		out.Version++
		out.UpdatedAt = s.now()
		data, err := json.Marshal(&out)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, goredis.TxFailedErr) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AppendGroup adds an empty group at the end.
func (s *Service) AppendGroup(ctx context.Context, id string) (*View, error) {
	d, err := s.mutate(ctx, id, fieldgroup.Collection.Append)
	if err != nil {
		return nil, err
	}
	return newView(d), nil
}

// UpdateGroup edits the name and/or options of a group. Unknown group ids
// leave the draft unchanged.
func (s *Service) UpdateGroup(ctx context.Context, id string, gid int, dto *UpdateGroupDTO) (*View, error) {
	d, err := s.mutate(ctx, id, func(c fieldgroup.Collection) fieldgroup.Collection {
		if dto.Name != nil {
			c = c.Rename(gid, *dto.Name)
		}
		if dto.Options != nil {
			c = c.SetOptions(gid, *dto.Options)
		}
		return c
	})
	if err != nil {
		return nil, err
	}
	return newView(d), nil
}

// RemoveGroup drops a group and renumbers the rest. The answer carries the
// old → new id map so the page can move anything keyed by group id.
func (s *Service) RemoveGroup(ctx context.Context, id string, gid int) (*RemovalView, error) {
	var removal fieldgroup.Removal
	d, err := s.mutate(ctx, id, func(c fieldgroup.Collection) fieldgroup.Collection {
		removal = c.Remove(gid)
		return removal.Collection
	})
	if err != nil {
		return nil, err
	}
	return &RemovalView{View: newView(d), Removed: removal.Removed, Renamed: removal.Renamed}, nil
}

// SetEnabled switches the has-groups toggle.
func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) (*View, error) {
	d, err := s.mutate(ctx, id, func(c fieldgroup.Collection) fieldgroup.Collection {
		return c.Toggle(enabled)
	})
	if err != nil {
		return nil, err
	}
	return newView(d), nil
}

// Payload serializes the draft for submission.
func (s *Service) Payload(ctx context.Context, id string) (*PayloadView, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := d.Collection.Serialize()
	return &PayloadView{Payload: p, Form: fieldgroup.EncodeForm(p)}, nil
}

// MapErrors projects a backend validation payload onto the draft's groups.
func (s *Service) MapErrors(ctx context.Context, id string, payload map[string][]string) (fieldgroup.GroupErrors, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return fieldgroup.GroupErrors{}, err
	}
	return fieldgroup.MapErrors(d.Collection, payload), nil
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Del(ctx, s.key(id))
	return n > 0, err
}
