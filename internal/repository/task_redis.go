package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/jaekwang-park/todos/internal/model"
)

// RedisTaskRepository stores each task as a JSON document under
// <prefix>task:<id>. A sorted set scored by ID gives List its order and a
// counter key hands out IDs.
type RedisTaskRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisTask(client *redis.Client, prefix string) *RedisTaskRepository {
	return &RedisTaskRepository{client: client, prefix: prefix}
}

func (r *RedisTaskRepository) taskKey(id int64) string {
	return r.prefix + "task:" + strconv.FormatInt(id, 10)
}

func (r *RedisTaskRepository) indexKey() string {
	return r.prefix + "ids"
}

func (r *RedisTaskRepository) seqKey() string {
	return r.prefix + "seq"
}

func decodeTask(data []byte) (model.Task, error) {
	var t model.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return model.Task{}, fmt.Errorf("failed to decode task: %w", err)
	}
	t.Tags = normalizeTags(t.Tags)
	return t, nil
}

func (r *RedisTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	ids, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}
	if len(ids) == 0 {
		return []model.Task{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.prefix + "task:" + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// deleted between ZRANGE and MGET
			continue
		}
		t, err := decodeTask([]byte(s))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *RedisTaskRepository) GetByID(ctx context.Context, id int64) (model.Task, error) {
	data, err := r.client.Get(ctx, r.taskKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("failed to get task: %w", err)
	}
	return decodeTask(data)
}

func (r *RedisTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to allocate task id: %w", err)
	}
	task.ID = id
	task.Tags = normalizeTags(task.Tags)

	data, err := json.Marshal(task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to encode task: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.taskKey(id), data, 0)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (r *RedisTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	existing, err := r.GetByID(ctx, task.ID)
	if err != nil {
		return model.Task{}, err
	}
	task.CreatedAt = existing.CreatedAt
	task.Tags = normalizeTags(task.Tags)

	data, err := json.Marshal(task)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to encode task: %w", err)
	}

	ok, err := r.client.SetXX(ctx, r.taskKey(task.ID), data, 0).Result()
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return task, nil
}

func (r *RedisTaskRepository) Delete(ctx context.Context, id int64) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, r.taskKey(id))
		pipe.ZRem(ctx, r.indexKey(), strconv.FormatInt(id, 10))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisTaskRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ TaskRepository = (*RedisTaskRepository)(nil)
