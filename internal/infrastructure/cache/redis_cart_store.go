package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mall/backend/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

// RedisCartStore keeps each user's cart in two keys:
//
//	cart_<user_id>           hash  sku_id -> count
//	cart_selected_<user_id>  set   selected sku_ids
//
// Multi-key writes go through MULTI/EXEC so the two keys never disagree
// about a single write.
type RedisCartStore struct {
	client redis.UniversalClient
}

// NewRedisCartStore creates a cart store over an existing client
func NewRedisCartStore(client redis.UniversalClient) *RedisCartStore {
	return &RedisCartStore{client: client}
}

func countsKey(userID int64) string {
	return fmt.Sprintf("cart_%d", userID)
}

func selectedKey(userID int64) string {
	return fmt.Sprintf("cart_selected_%d", userID)
}

// Get loads the user's cart. Hash fields that are not positive integers are skipped.
func (s *RedisCartStore) Get(ctx context.Context, userID int64) (cart.Cart, error) {
	var counts *redis.MapStringStringCmd
	var members *redis.StringSliceCmd
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		counts = p.HGetAll(ctx, countsKey(userID))
		members = p.SMembers(ctx, selectedKey(userID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load cart for user %d: %w", userID, err)
	}

	selected := make(map[int64]bool, len(members.Val()))
	for _, m := range members.Val() {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			selected[id] = true
		}
	}

	c := cart.New()
	for field, value := range counts.Val() {
		id, err1 := strconv.ParseInt(field, 10, 64)
		n, err2 := strconv.Atoi(value)
		if err1 != nil || err2 != nil || id <= 0 {
			continue
		}
		c.Set(id, n, selected[id])
	}
	return c, nil
}

// Set writes one entry's count and selection flag in a single transaction
func (s *RedisCartStore) Set(ctx context.Context, userID, skuID int64, entry cart.Entry) error {
	if entry.Count <= 0 {
		return s.Remove(ctx, userID, skuID)
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, countsKey(userID), skuID, entry.Count)
		if entry.Selected {
			p.SAdd(ctx, selectedKey(userID), skuID)
		} else {
			p.SRem(ctx, selectedKey(userID), skuID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set cart entry for user %d: %w", userID, err)
	}
	return nil
}

// Remove deletes skus from both keys in a single transaction
func (s *RedisCartStore) Remove(ctx context.Context, userID int64, skuIDs ...int64) error {
	if len(skuIDs) == 0 {
		return nil
	}
	fields := make([]string, len(skuIDs))
	members := make([]any, len(skuIDs))
	for i, id := range skuIDs {
		fields[i] = strconv.FormatInt(id, 10)
		members[i] = id
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, countsKey(userID), fields...)
		p.SRem(ctx, selectedKey(userID), members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove cart entries for user %d: %w", userID, err)
	}
	return nil
}

// SelectAll reads the hash keys and adds all of them to, or removes all of
// them from, the selected set. An empty cart is a no-op.
func (s *RedisCartStore) SelectAll(ctx context.Context, userID int64, selected bool) error {
	fields, err := s.client.HKeys(ctx, countsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list cart skus for user %d: %w", userID, err)
	}
	if len(fields) == 0 {
		return nil
	}

	members := make([]any, len(fields))
	for i, f := range fields {
		members[i] = f
	}
	if selected {
		err = s.client.SAdd(ctx, selectedKey(userID), members...).Err()
	} else {
		err = s.client.SRem(ctx, selectedKey(userID), members...).Err()
	}
	if err != nil {
		return fmt.Errorf("update cart selection for user %d: %w", userID, err)
	}
	return nil
}

// Selected returns the counts of selected skus. Selected ids without a
// count are left over from a concurrent removal and are ignored.
func (s *RedisCartStore) Selected(ctx context.Context, userID int64) (map[int64]int, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.SelectedCounts(), nil
}

// Merge applies an anonymous cart over the user's cart. Counts from the
// anonymous cart overwrite stored counts; the selection flag of each merged
// sku follows the anonymous cart. Every command is queued in one MULTI/EXEC,
// so either all of them apply or none does.
func (s *RedisCartStore) Merge(ctx context.Context, userID int64, anonymous cart.Cart) error {
	if anonymous.IsEmpty() {
		return nil
	}

	counts := make(map[string]any, len(anonymous))
	for id, e := range anonymous {
		counts[strconv.FormatInt(id, 10)] = e.Count
	}
	selected, deselected := anonymous.Partition()

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, countsKey(userID), counts)
		if len(selected) > 0 {
			p.SAdd(ctx, selectedKey(userID), toMembers(selected)...)
		}
		if len(deselected) > 0 {
			p.SRem(ctx, selectedKey(userID), toMembers(deselected)...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("merge cart for user %d: %w", userID, err)
	}
	return nil
}

func toMembers(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

var _ cart.Store = (*RedisCartStore)(nil)
